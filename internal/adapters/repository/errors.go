package repository

import (
	"errors"

	"github.com/okian/medbench/internal/domain/diagnostics"
)

// Sentinel errors for score sources.
var (
	ErrSourceUnavailable = diagnostics.ErrSourceUnavailable
	ErrUnknownBenchmark  = diagnostics.ErrUnknownBenchmark
	ErrMissingColumn     = errors.New("required column missing")
)
