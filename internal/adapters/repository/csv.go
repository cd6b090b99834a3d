package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/model"
	"github.com/okian/medbench/pkg/logger"
)

// Column names of per-benchmark score files.
const (
	colModel       = "model"
	colReleaseDate = "release_date"
	colScore       = "score"
	colProvider    = "provider"
	colBenchmark   = "benchmark_id"
	colCI          = "ci"
)

// CSVLoader reads <dir>/<DataFile> for each benchmark of a table. Files have
// the header model,release_date,score and optionally provider, ci and
// benchmark_id; a non-empty benchmark_id cell overrides the file's benchmark.
// ci is the half-width of the confidence interval in the file's scale.
type CSVLoader struct {
	dir    string
	table  benchmark.Table
	logger logger.Logger
}

// NewCSVLoader returns a loader reading files from dir.
func NewCSVLoader(dir string, table benchmark.Table, opts ...CSVOption) *CSVLoader {
	c := &CSVLoader{dir: dir, table: table, logger: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the file backing id.
func (c *CSVLoader) Path(id benchmark.ID) (string, error) {
	def, ok := c.table.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBenchmark, id)
	}
	return filepath.Join(c.dir, def.DataFile), nil
}

// Load implements Loader.
func (c *CSVLoader) Load(ctx context.Context, id benchmark.ID) ([]model.RawRecord, error) {
	const op = "repository.csv.load"

	path, err := c.Path(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrSourceUnavailable, err)
	}
	defer f.Close()

	t, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s: %w", op, ErrSourceUnavailable, path, err)
	}
	if err := t.require(colModel, colReleaseDate, colScore); err != nil {
		return nil, fmt.Errorf("%s: %w: %s: %w", op, ErrSourceUnavailable, path, err)
	}

	out := make([]model.RawRecord, 0, len(t.rows))
	for i, row := range t.rows {
		bench := string(id)
		if v := t.cell(row, colBenchmark); v != "" {
			bench = v
		}
		out = append(out, model.RawRecord{
			Benchmark:   bench,
			Model:       t.cell(row, colModel),
			Provider:    t.cell(row, colProvider),
			ReleaseDate: t.cell(row, colReleaseDate),
			Score:       t.cell(row, colScore),
			CI:          t.cell(row, colCI),
			Source:      path,
			Line:        i + 1,
		})
	}
	c.logger.Debug(ctx, "loaded score file", logger.String("benchmark", string(id)), logger.String("path", path), logger.Int("rows", len(out)))
	return out, nil
}
