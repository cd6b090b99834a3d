package diagnostics

import (
	"errors"

	"github.com/okian/medbench/internal/domain/benchmark"
)

// Sentinel error kinds. Diagnostics wrap them so callers can use errors.Is.
var (
	ErrMalformedRecord   = errors.New("malformed record")
	ErrEmptyBenchmark    = errors.New("empty benchmark")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrUnknownBenchmark  = benchmark.ErrUnknownBenchmark
)
