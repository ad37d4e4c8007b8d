// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/pantaucorona/internal/app/features/summary"
	casestatsstore "github.com/dalemusser/pantaucorona/internal/app/store/casestats"
	"github.com/dalemusser/pantaucorona/internal/app/system/format"
	"github.com/dalemusser/pantaucorona/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pantaucorona/internal/app/system/timeouts"
	"github.com/dalemusser/pantaucorona/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// defaultCountries is the comparison table used when none is configured.
// Names are the statistics API's country identifiers.
const defaultCountries = "Indonesia,Malaysia,Singapore,Thailand,Philippines,Vietnam,India,China,Japan,Australia,US,Brazil,United Kingdom,Italy,Spain,Germany,France"

// appConfigKeys defines the configuration keys for Pantau Corona.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, home_country, etc.
//   - Environment variables: PANTAUCORONA_API_BASE_URL, PANTAUCORONA_HOME_COUNTRY, etc.
//   - Command-line flags: --api_base_url, --home_country, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: casestatsstore.DefaultBaseURL, Desc: "Root URL of the case statistics API"},
	{Name: "fetch_timeout", Default: "0s", Desc: "Per-request timeout for the statistics API (0 disables)"},

	{Name: "home_country", Default: "indonesia", Desc: "Country shown when the global toggle is off"},
	{Name: "countries", Default: defaultCountries, Desc: "Comma-separated countries for the comparison table, in display order"},
	{Name: "locale", Default: "en", Desc: "Locale used for thousands grouping (BCP 47)"},
	{Name: "display_timezone", Default: "Asia/Jakarta", Desc: "IANA time zone for the last-update time"},
	{Name: "summary_apply", Default: string(summary.ApplyLatestIssued), Desc: "Which summary response wins: 'latest_issued' or 'latest_completed'"},

	{Name: "session_key", Default: "", Desc: "Session signing key (required in production; random per process otherwise)"},
	{Name: "session_name", Default: "pantaucorona-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "page_idle_ttl", Default: "30m", Desc: "Evict dashboard pages unused for this long"},
	{Name: "page_sweep_interval", Default: "1m", Desc: "How often idle pages are swept"},

	{Name: "ping_timeout", Default: "2s", Desc: "Timeout for health checks against the statistics API"},
	{Name: "drain_timeout", Default: "10s", Desc: "How long shutdown waits for in-flight fetches"},

	{Name: "site_name", Default: models.DefaultSiteName, Desc: "Site name shown in the header"},
	{Name: "footer_html", Default: "", Desc: "Footer HTML (sanitised; links and emphasis only)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, PANTAUCORONA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PANTAUCORONA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL:   appValues.String("api_base_url"),
		FetchTimeout: appValues.Duration("fetch_timeout", 0),

		HomeCountry:     strings.TrimSpace(appValues.String("home_country")),
		Countries:       parseCountries(appValues.String("countries")),
		Locale:          appValues.String("locale"),
		DisplayTimezone: appValues.String("display_timezone"),
		SummaryApply:    appValues.String("summary_apply"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		PageIdleTTL:       appValues.Duration("page_idle_ttl", 30*time.Minute),
		PageSweepInterval: appValues.Duration("page_sweep_interval", time.Minute),

		PingTimeout:  appValues.Duration("ping_timeout", timeouts.DefaultPing),
		DrainTimeout: appValues.Duration("drain_timeout", timeouts.DefaultDrain),

		SiteName:   appValues.String("site_name"),
		FooterHTML: appValues.String("footer_html"),
	}

	return coreCfg, appCfg, nil
}

// parseCountries splits a comma-separated list, dropping blanks.
// Names keep their original spelling; markup is rejected by ValidateConfig.
func parseCountries(raw string) []models.CountryEntry {
	var out []models.CountryEntry
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		out = append(out, models.CountryEntry{Name: name})
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Pantau Corona checks everything that would otherwise only fail on the
// first page load: the API URL, locale, time zone, apply policy, country
// names and, in production, the session key.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		logger.Error("invalid api_base_url", zap.String("api_base_url", appCfg.APIBaseURL))
		return fmt.Errorf("invalid api_base_url %q: want an http(s) URL", appCfg.APIBaseURL)
	}

	if appCfg.HomeCountry == "" {
		return fmt.Errorf("home_country must not be empty")
	}

	if _, err := format.New(appCfg.Locale, appCfg.DisplayTimezone); err != nil {
		return fmt.Errorf("invalid display settings: %w", err)
	}

	if _, err := summary.ParseApplyPolicy(appCfg.SummaryApply); err != nil {
		return err
	}

	for _, c := range appCfg.Countries {
		if htmlsanitize.PlainText(c.Name) != c.Name {
			return fmt.Errorf("country %q contains markup", c.Name)
		}
	}

	if appCfg.FetchTimeout < 0 || appCfg.PingTimeout < 0 || appCfg.DrainTimeout < 0 {
		return fmt.Errorf("fetch_timeout, ping_timeout and drain_timeout must not be negative")
	}
	if appCfg.PageIdleTTL <= 0 || appCfg.PageSweepInterval <= 0 {
		return fmt.Errorf("page_idle_ttl and page_sweep_interval must be positive")
	}

	if coreCfg.Env == "prod" && appCfg.SessionKey == "" {
		return fmt.Errorf("session_key is required in production")
	}

	return nil
}
