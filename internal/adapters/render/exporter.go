// Package render turns presentation series into chart artifacts.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/medbench/internal/domain/presentation"
	"github.com/okian/medbench/pkg/logger"
	"github.com/okian/medbench/pkg/metrics"
)

// Artifact formats.
const (
	FormatHTML = "html"
	FormatPNG  = "png"
)

// Renderer writes one chart document.
type Renderer interface {
	Format() string
	Render(w io.Writer, series []presentation.Series, theme Theme) error
}

// Artifact is one file written by an export.
type Artifact struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Theme  string `json:"theme"`
	Bytes  int    `json:"bytes"`
}

// Exporter renders every theme with every renderer into a directory.
type Exporter struct {
	renderers []Renderer
	themes    []Theme
	logger    logger.Logger
}

// NewExporter returns an exporter writing HTML and PNG in the white and dark themes.
func NewExporter(opts ...ExporterOption) *Exporter {
	e := &Exporter{
		renderers: []Renderer{NewHTMLRenderer(), NewPNGRenderer()},
		themes:    []Theme{White(), Dark()},
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes <base>_<theme>.<format> files under dir, creating it if
// needed. A document is rendered fully in memory before its file is written.
func (e *Exporter) Export(ctx context.Context, series []presentation.Series, dir, base string) ([]Artifact, error) {
	const op = "render.export"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out []Artifact
	for _, theme := range e.themes {
		for _, r := range e.renderers {
			if err := ctx.Err(); err != nil {
				return out, fmt.Errorf("%s: %w", op, err)
			}
			var buf bytes.Buffer
			start := time.Now()
			if err := r.Render(&buf, series, theme); err != nil {
				return out, fmt.Errorf("%s: %s/%s: %w", op, r.Format(), theme.Name, err)
			}
			metrics.RecordRender(r.Format(), float64(time.Since(start).Milliseconds()))

			path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, theme.Name, r.Format()))
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return out, fmt.Errorf("%s: %w", op, err)
			}
			metrics.RecordArtifactWritten()
			e.logger.Info(ctx, "artifact written",
				logger.String("path", path),
				logger.String("format", r.Format()),
				logger.String("theme", theme.Name),
				logger.Int("bytes", buf.Len()))
			out = append(out, Artifact{Path: path, Format: r.Format(), Theme: theme.Name, Bytes: buf.Len()})
		}
	}
	return out, nil
}
