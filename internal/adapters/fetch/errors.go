package fetch

import (
	"errors"

	"github.com/okian/medbench/internal/domain/diagnostics"
)

// Sentinel errors for remote fetches.
var (
	// ErrSourceUnavailable is returned when neither the remote nor the cache can be read.
	ErrSourceUnavailable = diagnostics.ErrSourceUnavailable
	ErrUnexpectedStatus  = errors.New("unexpected http status")
	ErrMissingURL        = errors.New("fetch url is empty")
	ErrBodyTooLarge      = errors.New("response body too large")
)
