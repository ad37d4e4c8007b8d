// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// Routes wires the dashboard at the site root. The session middleware
// must run first so handlers can find the visitor's page.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Full page; every load mounts a new page.
	r.Get("/", h.ServePage)

	// HTMX partials and toggles.
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Get("/summary", h.ServeSummary)
		dr.Get("/comparison", h.ServeComparison)
		dr.Post("/scope", h.ToggleScope)
		dr.Post("/theme", h.ToggleTheme)
	})

	// JSON form of the same view models.
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/summary", h.ServeSummaryJSON)
		ar.Get("/comparison", h.ServeComparisonJSON)
	})

	return r
}
