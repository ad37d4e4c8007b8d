package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/pantaucorona/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pinger is the statistics API as seen by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Source Pinger
	Pages  func() int // mounted page count, optional
	Log    *zap.Logger
}

// NewHandler constructs a health Handler for the statistics API.
func NewHandler(source Pinger, pages func() int, logger *zap.Logger) *Handler {
	return &Handler{
		Source: source,
		Pages:  pages,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Pages    *int   `json:"pages,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "upstream":"reachable", "pages":3 }
//
// When the statistics API cannot be reached: 503 and
//
//	{ "status":"error", "upstream":"unreachable", "message":"Statistics API unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.Log, "upstream ping")
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Upstream: "reachable",
	}
	if h.Pages != nil {
		n := h.Pages()
		resp.Pages = &n
	}

	if err := h.Source.Ping(ctx); err != nil {
		h.Log.Error("health-check: upstream ping failed",
			zap.String("base_url", h.Source.BaseURL()),
			zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Upstream = "unreachable"
		resp.Message = "Statistics API unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
