// internal/app/features/dashboard/page.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/pantaucorona/internal/app/features/comparison"
	"github.com/dalemusser/pantaucorona/internal/app/features/summary"
	"github.com/dalemusser/pantaucorona/internal/app/system/session"
	"github.com/dalemusser/pantaucorona/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM

	Summary    summary.ViewModel
	Comparison comparison.ViewModel
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – mount a page                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServePage mounts a fresh page on every load. A reload discards the
// previous page and its in-flight requests.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	prefs := session.FromRequest(r)
	if prefs.PageID != "" && h.Pages.Remove(prefs.PageID) {
		h.Log.Debug("page replaced on reload", zap.String("page_id", prefs.PageID))
	}

	p := h.Pages.Mount(prefs.Global)
	prefs.PageID = p.ID
	h.savePrefs(w, r, prefs)

	// Render with the prefs just saved so the theme matches the cookie.
	r = session.WithPrefs(r, prefs)
	data := pageData{
		BaseVM:     viewdata.NewBaseVM(r, "Dashboard"),
		Summary:    h.summaryVM(p),
		Comparison: h.comparisonVM(p),
	}

	templates.Render(w, r, "dashboard_page", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/summary, /dashboard/comparison – htmx partials              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := h.currentPage(r)
	if !ok {
		redirectHome(w, r)
		return
	}
	templates.RenderSnippet(w, "dashboard_summary", h.summaryVM(p))
}

func (h *Handler) ServeComparison(w http.ResponseWriter, r *http.Request) {
	p, ok := h.currentPage(r)
	if !ok {
		redirectHome(w, r)
		return
	}
	templates.RenderSnippet(w, "dashboard_comparison", h.comparisonVM(p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/scope, /dashboard/theme – toggles                          |
*─────────────────────────────────────────────────────────────────────────────*/

// ToggleScope flips the summary between home country and global. The
// choice is remembered so the next mount starts from it.
func (h *Handler) ToggleScope(w http.ResponseWriter, r *http.Request) {
	p, ok := h.currentPage(r)
	if !ok {
		redirectHome(w, r)
		return
	}

	prefs := session.FromRequest(r)
	prefs.Global = p.Summary.Toggle(p.Context())
	h.savePrefs(w, r, prefs)

	h.Log.Debug("summary scope toggled",
		zap.String("page_id", p.ID),
		zap.Bool("global", prefs.Global))

	if isHTMX(r) {
		templates.RenderSnippet(w, "dashboard_summary", h.summaryVM(p))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ToggleTheme flips light/dark. It only touches the cookie; the mounted
// page keeps its state.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	prefs := session.FromRequest(r)
	prefs.Dark = !prefs.Dark
	h.savePrefs(w, r, prefs)

	// HTMX callers flip the theme class client side.
	if isHTMX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) summaryVM(p *Page) summary.ViewModel {
	return summary.BuildViewModel(p.Summary.Snapshot(), h.Fmt, p.Summary.HomeCountry())
}

func (h *Handler) comparisonVM(p *Page) comparison.ViewModel {
	return comparison.BuildViewModel(p.Comparison.Snapshot(), h.Fmt)
}
