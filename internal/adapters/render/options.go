package render

import (
	"time"

	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/pkg/logger"
)

// PNGOption configures a PNGRenderer.
type PNGOption func(*PNGRenderer)

// WithSize sets the canvas size in pixels.
func WithSize(width, height int) PNGOption {
	return func(r *PNGRenderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithPNGTitle sets the chart title.
func WithPNGTitle(title string) PNGOption {
	return func(r *PNGRenderer) {
		if title != "" {
			r.title = title
		}
	}
}

// HTMLOption configures an HTMLRenderer.
type HTMLOption func(*HTMLRenderer)

// WithHTMLTitle sets the page title.
func WithHTMLTitle(title string) HTMLOption {
	return func(r *HTMLRenderer) {
		if title != "" {
			r.title = title
		}
	}
}

// WithPlotlyURL overrides the plotly script location.
func WithPlotlyURL(url string) HTMLOption {
	return func(r *HTMLRenderer) {
		if url != "" {
			r.plotlyURL = url
		}
	}
}

// WithTable sets the table used for source attributions.
func WithTable(t benchmark.Table) HTMLOption {
	return func(r *HTMLRenderer) {
		r.table = t
	}
}

// WithClock sets the clock used for the "last updated" footer.
func WithClock(now func() time.Time) HTMLOption {
	return func(r *HTMLRenderer) {
		if now != nil {
			r.now = now
		}
	}
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithRenderers replaces the renderers run for each theme.
func WithRenderers(rs ...Renderer) ExporterOption {
	return func(e *Exporter) {
		if len(rs) > 0 {
			e.renderers = rs
		}
	}
}

// WithThemes replaces the exported themes.
func WithThemes(ts ...Theme) ExporterOption {
	return func(e *Exporter) {
		if len(ts) > 0 {
			e.themes = ts
		}
	}
}

// WithLogger sets the exporter logger.
func WithLogger(l logger.Logger) ExporterOption {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}
