// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/pantaucorona/internal/domain/models"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS); everything specific
// to the dashboard lives here.
type AppConfig struct {
	// Statistics API
	APIBaseURL   string        // API root (e.g., https://covid19.mathdro.id/api)
	FetchTimeout time.Duration // per-request timeout; 0 means none

	// Dashboard content
	HomeCountry     string                // country shown when the global toggle is off
	Countries       []models.CountryEntry // comparison table rows, in display order
	Locale          string                // BCP 47 tag for number grouping
	DisplayTimezone string                // IANA zone for the last-update time
	SummaryApply    string                // "latest_issued" or "latest_completed"

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: pantaucorona-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Page lifetime
	PageIdleTTL       time.Duration // evict pages unused for this long
	PageSweepInterval time.Duration // how often the cleanup worker runs

	// Server-side timeouts (0 keeps the package defaults)
	PingTimeout  time.Duration // health and startup checks against the API
	DrainTimeout time.Duration // how long shutdown waits for pages to settle

	// Site chrome
	SiteName   string
	FooterHTML string
}
