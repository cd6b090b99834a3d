package api

import (
	"fmt"
	"net/http"

	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/diagnostics"
)

// DiagnosticsHandler serves the diagnostics report of the last run.
type DiagnosticsHandler struct {
	deps Dependencies
}

// NewDiagnosticsHandler creates a new diagnostics handler.
func NewDiagnosticsHandler(deps Dependencies) *DiagnosticsHandler {
	return &DiagnosticsHandler{deps: deps}
}

// HandleDiagnostics handles GET /diagnostics requests. An optional
// benchmark query parameter narrows the items to one benchmark.
func (h *DiagnosticsHandler) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	const op = "api.diagnostics"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, ok := h.deps.Diagnostics()
	if !ok {
		writeErr(w, fmt.Errorf("%s: %w", op, ErrNoResult))
		return
	}
	if b := r.URL.Query().Get("benchmark"); b != "" {
		if id, err := benchmark.ParseID(b); err == nil {
			b = string(id)
		}
		items := report.ForBenchmark(b)
		if items == nil {
			items = []diagnostics.Diagnostic{}
		}
		writeJSON(w, http.StatusOK, items)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
