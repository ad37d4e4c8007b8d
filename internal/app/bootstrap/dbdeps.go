// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/pantaucorona/internal/app/features/dashboard"
	casestatsstore "github.com/dalemusser/pantaucorona/internal/app/store/casestats"
	"github.com/dalemusser/pantaucorona/internal/app/system/format"
	"github.com/dalemusser/pantaucorona/internal/app/system/workers"
	"github.com/prometheus/client_golang/prometheus"
)

// DBDeps holds the back-end dependencies for the app. There is no
// database; the "backends" are the statistics API client and the
// in-memory page registry.
type DBDeps struct {
	CaseStats *casestatsstore.Client
	Pages     *dashboard.Registry
	Formatter *format.Formatter
	Metrics   *prometheus.Registry
	Cleanup   *workers.PageCleanup
}
