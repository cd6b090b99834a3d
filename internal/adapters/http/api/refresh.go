package api

import (
	"fmt"
	"net/http"

	"github.com/okian/medbench/internal/domain/diagnostics"
)

type refreshResponse struct {
	Status      string              `json:"status"`
	Diagnostics *diagnostics.Report `json:"diagnostics,omitempty"`
}

// RefreshHandler reruns the pipeline on request.
type RefreshHandler struct {
	deps Dependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps Dependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /refresh requests. The previous result keeps
// being served when the rerun fails.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := h.deps.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "refresh_failed", fmt.Errorf("%s: %w: %w", op, ErrRefresh, err))
		return
	}
	report, _ := h.deps.Diagnostics()
	writeJSON(w, http.StatusOK, refreshResponse{Status: "ok", Diagnostics: report})
}
