// Package fetch downloads a remote source and keeps a local copy of it.
//
// A successful download refreshes the cache file. When the remote cannot be
// reached the cached copy is served and marked stale.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/okian/medbench/pkg/logger"
	"github.com/okian/medbench/pkg/metrics"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultMaxBytes = 16 << 20
)

// Fetch outcomes as recorded in metrics.
const (
	OutcomeRemote = "remote"
	OutcomeCached = "cached"
	OutcomeStale  = "stale"
	OutcomeFailed = "failed"
)

// Result is the body of a fetched source.
type Result struct {
	Body []byte
	// Source is the URL or cache path the body was read from.
	Source string
	// Stale is set when the remote failed and the cache was served instead.
	Stale     bool
	FetchedAt time.Time
}

// Fetcher downloads one URL into one cache file.
type Fetcher struct {
	url         string
	cachePath   string
	client      *http.Client
	timeout     time.Duration
	maxBytes    int64
	preferCache bool
	logger      logger.Logger
}

// New returns a Fetcher for url caching into cachePath. An empty cachePath
// disables caching.
func New(url, cachePath string, opts ...Option) *Fetcher {
	f := &Fetcher{
		url:       url,
		cachePath: cachePath,
		client:    cleanhttp.DefaultPooledClient(),
		timeout:   defaultTimeout,
		maxBytes:  defaultMaxBytes,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the remote location.
func (f *Fetcher) URL() string { return f.url }

// Fetch returns the remote body, or the cached copy when the remote fails.
func (f *Fetcher) Fetch(ctx context.Context) (Result, error) {
	const op = "fetch.Fetch"

	if f.preferCache {
		if body, err := f.readCache(); err == nil {
			metrics.RecordFetch(OutcomeCached)
			f.logger.Debug(ctx, "serving cached copy", logger.String("path", f.cachePath))
			return Result{Body: body, Source: f.cachePath, FetchedAt: time.Now()}, nil
		}
	}

	start := time.Now()
	body, remoteErr := f.get(ctx)
	metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
	if remoteErr == nil {
		metrics.RecordFetch(OutcomeRemote)
		if err := f.writeCache(body); err != nil {
			f.logger.Warn(ctx, "failed to write cache", logger.String("path", f.cachePath), logger.Error(err))
		}
		return Result{Body: body, Source: f.url, FetchedAt: time.Now()}, nil
	}

	f.logger.Warn(ctx, "remote fetch failed", logger.String("url", f.url), logger.Error(remoteErr))
	body, err := f.readCache()
	if err != nil {
		metrics.RecordFetch(OutcomeFailed)
		return Result{}, fmt.Errorf("%s: %w: %w", op, ErrSourceUnavailable, errors.Join(remoteErr, err))
	}
	metrics.RecordFetch(OutcomeStale)
	f.logger.Info(ctx, "serving stale cache", logger.String("path", f.cachePath))
	return Result{Body: body, Source: f.cachePath, Stale: true, FetchedAt: time.Now()}, nil
}

func (f *Fetcher) get(ctx context.Context) ([]byte, error) {
	if f.url == "" {
		return nil, ErrMissingURL
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	// One byte past the limit tells an exact fit from an oversized body.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBytes)
	}
	return body, nil
}

func (f *Fetcher) readCache() ([]byte, error) {
	if f.cachePath == "" {
		return nil, errors.New("cache disabled")
	}
	return os.ReadFile(f.cachePath)
}

func (f *Fetcher) writeCache(body []byte) error {
	if f.cachePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.cachePath), 0o755); err != nil {
		return err
	}
	tmp := f.cachePath + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.cachePath)
}
