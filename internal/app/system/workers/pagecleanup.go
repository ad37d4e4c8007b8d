// internal/app/system/workers/pagecleanup.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper evicts entries unused for longer than idle and reports how many
// were removed.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// PageCleanup is a background worker that evicts idle dashboard pages.
type PageCleanup struct {
	pages     Sweeper
	log       *zap.Logger
	interval  time.Duration
	idleAfter time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewPageCleanup creates a new page cleanup worker.
//
// Parameters:
//   - pages: the registry to sweep
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 minute)
//   - idleAfter: how long a page must go unused before eviction (e.g., 30 minutes)
func NewPageCleanup(pages Sweeper, logger *zap.Logger, interval, idleAfter time.Duration) *PageCleanup {
	return &PageCleanup{
		pages:     pages,
		log:       logger,
		interval:  interval,
		idleAfter: idleAfter,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *PageCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("page cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_after", w.idleAfter))
}

// Stop signals the worker to stop and waits for it to finish. Calling it
// more than once is harmless.
func (w *PageCleanup) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("page cleanup worker stopped")
	})
}

func (w *PageCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *PageCleanup) cleanup() {
	if n := w.pages.Sweep(w.idleAfter); n > 0 {
		w.log.Info("evicted idle pages", zap.Int("count", n))
	}
}
