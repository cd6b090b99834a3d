package benchmark

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownBenchmark = errors.New("unknown benchmark id")
	ErrInvalidColor     = errors.New("invalid display color")
	ErrInvalidScale     = errors.New("invalid score scale")
)
