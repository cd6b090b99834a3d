package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/presentation"
)

type frontierResponse struct {
	Series []presentation.Series `json:"series"`
}

// FrontierHandler serves the presentation series of the last run.
type FrontierHandler struct {
	deps Dependencies
}

// NewFrontierHandler creates a new frontier handler.
func NewFrontierHandler(deps Dependencies) *FrontierHandler {
	return &FrontierHandler{deps: deps}
}

// HandleList handles GET /frontier requests.
func (h *FrontierHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.frontier.list"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	series, ok := h.deps.Series()
	if !ok {
		writeErr(w, fmt.Errorf("%s: %w", op, ErrNoResult))
		return
	}
	writeJSON(w, http.StatusOK, frontierResponse{Series: series})
}

// HandleGet handles GET /frontier/{benchmark} requests. The benchmark id is
// matched case-insensitively.
func (h *FrontierHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.frontier.get"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/frontier/"), "/")
	id, err := benchmark.ParseID(raw)
	if err != nil {
		writeErr(w, fmt.Errorf("%s: %w: %w", op, ErrNotFound, err))
		return
	}
	series, ok := h.deps.Series()
	if !ok {
		writeErr(w, fmt.Errorf("%s: %w", op, ErrNoResult))
		return
	}
	s, ok := presentation.Find(series, id)
	if !ok {
		writeErr(w, fmt.Errorf("%s: %w: benchmark %s", op, ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, s)
}
