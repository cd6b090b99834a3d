// Package repository reads raw score rows from their storage formats.
//
// Loaders hide where and how rows are stored; callers only see RawRecords.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/model"
)

// Loader returns the raw rows of one benchmark.
type Loader interface {
	// Load returns every row of the benchmark's source. It fails with
	// ErrSourceUnavailable when the source as a whole cannot be read.
	Load(ctx context.Context, id benchmark.ID) ([]model.RawRecord, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, id benchmark.ID) ([]model.RawRecord, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, id benchmark.ID) ([]model.RawRecord, error) {
	return f(ctx, id)
}

// Registry maps benchmarks to their loaders.
type Registry struct {
	mu      sync.RWMutex
	loaders map[benchmark.ID]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[benchmark.ID]Loader)}
}

// Register binds id to l, replacing any previous loader.
func (r *Registry) Register(id benchmark.ID, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[id] = l
}

// Lookup returns the loader bound to id.
func (r *Registry) Lookup(id benchmark.ID) (Loader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loaders[id]
	if !ok {
		return nil, fmt.Errorf("%w: no loader for %q", ErrUnknownBenchmark, id)
	}
	return l, nil
}

// Load resolves the loader of id and calls it.
func (r *Registry) Load(ctx context.Context, id benchmark.ID) ([]model.RawRecord, error) {
	l, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, id)
}

// NewDefaultRegistry binds MAST to mast and every other table benchmark to
// csv. A nil mast leaves MAST on the CSV loader as well.
func NewDefaultRegistry(table benchmark.Table, csv *CSVLoader, mast *MASTLoader) *Registry {
	r := NewRegistry()
	for _, id := range table.IDs() {
		r.Register(id, csv)
	}
	if mast != nil {
		r.Register(benchmark.MAST, mast)
	}
	return r
}
