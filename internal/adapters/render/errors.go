package render

import "errors"

// Sentinel errors for chart rendering.
var (
	ErrNoData       = errors.New("no series with points to render")
	ErrUnknownTheme = errors.New("unknown theme")
)
