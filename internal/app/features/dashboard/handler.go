// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/pantaucorona/internal/app/system/format"
	"github.com/dalemusser/pantaucorona/internal/app/system/session"
	"go.uber.org/zap"
)

// Handler serves the dashboard page, its htmx partials and the JSON API.
type Handler struct {
	Pages    *Registry
	Sessions *session.Manager
	Fmt      *format.Formatter
	Log      *zap.Logger
}

func NewHandler(pages *Registry, sm *session.Manager, f *format.Formatter, logger *zap.Logger) *Handler {
	return &Handler{
		Pages:    pages,
		Sessions: sm,
		Fmt:      f,
		Log:      logger,
	}
}

// currentPage resolves the page recorded in the visitor's session.
func (h *Handler) currentPage(r *http.Request) (*Page, bool) {
	return h.Pages.Get(session.FromRequest(r).PageID)
}

// savePrefs writes the session cookie. A failure only costs the visitor
// their prefs on the next request, so it is logged and ignored.
func (h *Handler) savePrefs(w http.ResponseWriter, r *http.Request, p session.Prefs) {
	if err := h.Sessions.Save(w, r, p); err != nil {
		h.Log.Warn("session save failed", zap.Error(err))
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}

// redirectHome sends browsers back to "/" to mount a fresh page.
// HTMX callers get HX-Redirect so the whole page swaps.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
