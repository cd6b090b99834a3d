package api

import (
	"net/http"

	service "github.com/okian/medbench/internal/app"
)

// StatsProvider reports the pipeline state served on /stats.
type StatsProvider interface {
	Stats() service.Stats
}

// StatsHandler serves the run counters and the current SOTA per benchmark.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats. Other methods get 405.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.Stats())
}
