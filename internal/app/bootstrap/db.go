// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/pantaucorona/internal/app/features/dashboard"
	"github.com/dalemusser/pantaucorona/internal/app/features/summary"
	casestatsstore "github.com/dalemusser/pantaucorona/internal/app/store/casestats"
	"github.com/dalemusser/pantaucorona/internal/app/system/format"
	"github.com/dalemusser/pantaucorona/internal/app/system/timeouts"
	"github.com/dalemusser/pantaucorona/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// ConnectDB builds the back ends: the statistics API client, the metrics
// registry and the page registry. An unreachable API is logged, not fatal;
// the dashboard shows dashes until it recovers.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	configureTimeouts(appCfg, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := casestatsstore.New(casestatsstore.Options{
		BaseURL:    appCfg.APIBaseURL,
		HTTPClient: &http.Client{},
		Timeout:    appCfg.FetchTimeout,
		Registerer: reg,
	})
	if err != nil {
		return DBDeps{}, fmt.Errorf("case stats client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		logger.Warn("statistics API not reachable at startup",
			zap.String("base_url", client.BaseURL()),
			zap.Error(err))
	} else {
		logger.Info("statistics API reachable", zap.String("base_url", client.BaseURL()))
	}

	f, err := format.New(appCfg.Locale, appCfg.DisplayTimezone)
	if err != nil {
		return DBDeps{}, err
	}

	policy, err := summary.ParseApplyPolicy(appCfg.SummaryApply)
	if err != nil {
		return DBDeps{}, err
	}

	pages := dashboard.NewRegistry(client, dashboard.PageConfig{
		HomeCountry: appCfg.HomeCountry,
		Countries:   appCfg.Countries,
		Policy:      policy,
	}, logger)

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "pantaucorona",
		Name:      "mounted_pages",
		Help:      "Dashboard pages currently mounted.",
	}, func() float64 { return float64(pages.Len()) }))

	return DBDeps{
		CaseStats: client,
		Pages:     pages,
		Formatter: f,
		Metrics:   reg,
		Cleanup:   workers.NewPageCleanup(pages, logger, appCfg.PageSweepInterval, appCfg.PageIdleTTL),
	}, nil
}

// EnsureSchema has no schema to create; it sanity-checks the comparison
// country list instead.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	seen := make(map[string]bool, len(appCfg.Countries))
	for _, c := range appCfg.Countries {
		if seen[c.Name] {
			logger.Warn("country listed twice; it will appear twice in the table", zap.String("country", c.Name))
		}
		seen[c.Name] = true
	}
	if len(appCfg.Countries) == 0 {
		logger.Warn("no countries configured; the comparison table will be empty")
	}
	logger.Info("comparison table configured", zap.Int("countries", len(appCfg.Countries)))
	return nil
}

// configureTimeouts applies the configured timeouts, then any TIMEOUT_*
// environment overrides. It runs before the startup ping, which uses them.
func configureTimeouts(appCfg AppConfig, logger *zap.Logger) {
	timeouts.Configure(timeouts.Config{
		Ping:  appCfg.PingTimeout,
		Drain: appCfg.DrainTimeout,
	})
	n := timeouts.ConfigureFromEnv()

	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("ping", cur.Ping),
		zap.Duration("drain", cur.Drain),
		zap.Int("env_overrides", n))
}
