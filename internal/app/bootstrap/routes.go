// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	dashboardfeature "github.com/dalemusser/pantaucorona/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/pantaucorona/internal/app/features/errors"
	healthfeature "github.com/dalemusser/pantaucorona/internal/app/features/health"
	"github.com/dalemusser/pantaucorona/internal/app/system/session"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, back ends and Startup hooks have
// completed. Pantau Corona initializes the template engine and the session
// cookie, then mounts health, metrics, static assets and the dashboard.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := session.NewManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	r := chi.NewRouter()

	// Visitor prefs (page ID, scope, theme) for every handler.
	r.Use(sessionMgr.LoadPrefs)

	// Error pages; set before mounting so subrouters inherit them.
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CaseStats, deps.Pages.Len, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus exposition for the app's own registry
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Dashboard page, partials and JSON API
	dashboardHandler := dashboardfeature.NewHandler(deps.Pages, sessionMgr, deps.Formatter, logger)
	r.Mount("/", dashboardfeature.Routes(dashboardHandler))

	return r, nil
}
