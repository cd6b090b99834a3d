package fetch

import (
	"net/http"
	"time"

	"github.com/okian/medbench/pkg/logger"
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds a single remote request.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxBytes caps the accepted response body size. A larger body counts
// as a failed fetch.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithHTTPClient replaces the pooled client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithPreferCache serves an existing cache file without contacting the remote.
func WithPreferCache(prefer bool) Option {
	return func(f *Fetcher) {
		f.preferCache = prefer
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}
