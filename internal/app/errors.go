package service

import "errors"

// Sentinel errors returned by Run.
var (
	// ErrNothingToRender is the only fatal data condition: every benchmark
	// ended up with zero valid records.
	ErrNothingToRender = errors.New("no benchmark has valid records")
	ErrExport          = errors.New("export failed")
)
