package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrNoResult   = errors.New("no frontier computed yet")
	ErrRefresh    = errors.New("refresh failed")
)
