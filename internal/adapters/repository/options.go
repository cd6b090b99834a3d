package repository

import "github.com/okian/medbench/pkg/logger"

// CSVOption configures a CSVLoader.
type CSVOption func(*CSVLoader)

// WithCSVLogger sets the logger of a CSVLoader.
func WithCSVLogger(l logger.Logger) CSVOption {
	return func(c *CSVLoader) {
		if l != nil {
			c.logger = l
		}
	}
}

// MASTOption configures a MASTLoader.
type MASTOption func(*MASTLoader)

// WithFilter replaces the row filter applied to the metrics document.
func WithFilter(f Filter) MASTOption {
	return func(m *MASTLoader) {
		m.filter = f
	}
}

// WithMASTLogger sets the logger of a MASTLoader.
func WithMASTLogger(l logger.Logger) MASTOption {
	return func(m *MASTLoader) {
		if l != nil {
			m.logger = l
		}
	}
}
