// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/pantaucorona/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the cleanup worker and discards every mounted page,
// waiting up to timeouts.Drain() for in-flight fetches to return.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Cleanup != nil {
		deps.Cleanup.Stop()
	}
	if deps.Pages == nil {
		return nil
	}

	logger.Info("closing dashboard pages", zap.Int("pages", deps.Pages.Len()))
	return drain(ctx, deps.Pages.Close, timeouts.Drain(), logger)
}

func drain(ctx context.Context, closeFn func(), limit time.Duration, logger *zap.Logger) error {
	done := make(chan struct{})
	go func() {
		closeFn()
		close(done)
	}()

	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		logger.Warn("gave up waiting for page fetches", zap.Duration("limit", limit))
		return nil
	case <-ctx.Done():
		logger.Warn("shutdown context ended before pages drained", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}
