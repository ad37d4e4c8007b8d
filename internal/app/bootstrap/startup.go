// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/pantaucorona/internal/app/resources"
	"github.com/dalemusser/pantaucorona/internal/app/system/viewdata"
	"github.com/dalemusser/pantaucorona/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the back ends are
// built, but before the HTTP handler is. It loads shared templates, applies
// site settings, and starts the page cleanup worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	viewdata.Init(models.SiteSettings{
		SiteName:   appCfg.SiteName,
		FooterHTML: appCfg.FooterHTML,
	})

	deps.Cleanup.Start()
	return nil
}
