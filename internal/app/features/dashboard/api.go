// internal/app/features/dashboard/api.go
package dashboard

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type apiError struct {
	Error string `json:"error"`
}

// ServeSummaryJSON handles GET /api/summary for the visitor's page.
func (h *Handler) ServeSummaryJSON(w http.ResponseWriter, r *http.Request) {
	p, ok := h.currentPage(r)
	if !ok {
		h.writeJSON(w, http.StatusNotFound, apiError{Error: "no dashboard page mounted"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.summaryVM(p))
}

// ServeComparisonJSON handles GET /api/comparison for the visitor's page.
func (h *Handler) ServeComparisonJSON(w http.ResponseWriter, r *http.Request) {
	p, ok := h.currentPage(r)
	if !ok {
		h.writeJSON(w, http.StatusNotFound, apiError{Error: "no dashboard page mounted"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.comparisonVM(p))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Warn("json encode failed", zap.Error(err))
	}
}
