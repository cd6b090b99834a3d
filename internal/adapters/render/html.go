package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/presentation"
)

//go:embed templates/chart.html.tmpl
var templateFS embed.FS

var chartTemplate = template.Must(template.ParseFS(templateFS, "templates/chart.html.tmpl"))

const defaultPlotlyURL = "https://cdn.plot.ly/plotly-2.27.0.min.js"

// HTMLRenderer writes a self-contained interactive page with one tab per
// benchmark. Plotly is loaded from a CDN.
type HTMLRenderer struct {
	title     string
	plotlyURL string
	table     benchmark.Table
	now       func() time.Time
}

// NewHTMLRenderer returns a renderer using the built-in benchmark table for
// attributions.
func NewHTMLRenderer(opts ...HTMLOption) *HTMLRenderer {
	r := &HTMLRenderer{
		title:     defaultTitle,
		plotlyURL: defaultPlotlyURL,
		table:     benchmark.DefaultTable(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format implements Renderer.
func (r *HTMLRenderer) Format() string { return FormatHTML }

type attribution struct {
	Benchmark  benchmark.ID
	FullName   string
	SourceName string
	SourceURL  string
	PaperURL   string
}

type page struct {
	Title        string
	PlotlyURL    string
	Theme        Theme
	XAxisTitle   string
	Series       []presentation.Series
	Attributions []attribution
	Updated      string
}

// Render implements Renderer. Empty series are left out of the page.
func (r *HTMLRenderer) Render(w io.Writer, series []presentation.Series, theme Theme) error {
	const op = "render.html"

	p := page{
		Title:      r.title,
		PlotlyURL:  r.plotlyURL,
		Theme:      theme,
		XAxisTitle: xAxisTitle,
		Series:     make([]presentation.Series, 0, len(series)),
		Updated:    r.now().Format("January 2006"),
	}
	for _, s := range series {
		if s.Empty() {
			continue
		}
		p.Series = append(p.Series, s)
		a := attribution{Benchmark: s.Benchmark, FullName: s.FullName}
		if def, ok := r.table.Get(s.Benchmark); ok {
			a.SourceName, a.SourceURL, a.PaperURL = def.SourceName, def.SourceURL, def.PaperURL
		}
		p.Attributions = append(p.Attributions, a)
	}
	if len(p.Series) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoData)
	}
	if err := chartTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
