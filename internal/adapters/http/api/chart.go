package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/medbench/internal/adapters/render"
)

// ChartHandler renders the last run's series on demand.
type ChartHandler struct {
	deps Dependencies
	html render.Renderer
	png  render.Renderer
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies, html, png render.Renderer) *ChartHandler {
	return &ChartHandler{deps: deps, html: html, png: png}
}

// HandleHTML handles GET /chart?theme= requests.
func (h *ChartHandler) HandleHTML(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.html, "text/html; charset=utf-8")
}

// HandlePNG handles GET /chart.png?theme= requests.
func (h *ChartHandler) HandlePNG(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.png, "image/png")
}

func (h *ChartHandler) serve(w http.ResponseWriter, r *http.Request, renderer render.Renderer, contentType string) {
	const op = "api.chart"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	name := r.URL.Query().Get("theme")
	if name == "" {
		name = render.ThemeWhite
	}
	theme, err := render.ThemeByName(name)
	if err != nil {
		writeErr(w, fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	series, ok := h.deps.Series()
	if !ok {
		writeErr(w, fmt.Errorf("%s: %w", op, ErrNoResult))
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, series, theme); err != nil {
		if errors.Is(err, render.ErrNoData) {
			err = fmt.Errorf("%w: %w", ErrNoResult, err)
		}
		writeErr(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
