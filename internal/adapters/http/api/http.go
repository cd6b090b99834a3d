// Package api exposes the latest benchmark frontiers over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/medbench/internal/adapters/render"
	"github.com/okian/medbench/internal/domain/diagnostics"
	"github.com/okian/medbench/internal/domain/presentation"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the pipeline implementation.
type Dependencies interface {
	// Series returns the series of the last renderable run.
	Series() ([]presentation.Series, bool)
	// Diagnostics returns the report of the last completed run.
	Diagnostics() (*diagnostics.Report, bool)
	// Refresh reruns the pipeline.
	Refresh(ctx context.Context) error
}

// Server wires HTTP routes for the frontier API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	frontierHandler    *FrontierHandler
	diagnosticsHandler *DiagnosticsHandler
	chartHandler       *ChartHandler
	refreshHandler     *RefreshHandler
}

// NewServer creates a new API server with all handlers. Nil renderers fall
// back to the package defaults.
func NewServer(deps Dependencies, statsProvider StatsProvider, html, png render.Renderer) *Server {
	if html == nil {
		html = render.NewHTMLRenderer()
	}
	if png == nil {
		png = render.NewPNGRenderer()
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		frontierHandler:    NewFrontierHandler(deps),
		diagnosticsHandler: NewDiagnosticsHandler(deps),
		chartHandler:       NewChartHandler(deps, html, png),
		refreshHandler:     NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/frontier", MetricsMiddleware(s.frontierHandler.HandleList, "frontier"))
	mux.HandleFunc("/frontier/", MetricsMiddleware(s.frontierHandler.HandleGet, "frontier_benchmark"))
	mux.HandleFunc("/diagnostics", MetricsMiddleware(s.diagnosticsHandler.HandleDiagnostics, "diagnostics"))
	mux.HandleFunc("/chart", MetricsMiddleware(s.chartHandler.HandleHTML, "chart"))
	mux.HandleFunc("/chart.png", MetricsMiddleware(s.chartHandler.HandlePNG, "chart_png"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// errorStatus maps API sentinels to a status and a stable error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrNoResult):
		return http.StatusServiceUnavailable, "no_result"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeErr(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, err)
}
