// Package timeouts provides centralized timeout values for operations that
// are bounded by the server rather than by a page.
//
// Timeouts can be configured at startup using Configure or
// ConfigureFromEnv. If not configured, the defaults are used.
//
//   - Ping: health checks against the statistics API
//   - Drain: how long shutdown waits for mounted pages to settle
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing  = 2 * time.Second
	DefaultDrain = 10 * time.Second
)

var (
	mu    sync.RWMutex
	ping  = DefaultPing
	drain = DefaultDrain
)

// Ping returns the timeout for the health endpoint's upstream check.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Drain returns how long shutdown waits for in-flight fetches.
func Drain() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return drain
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping  time.Duration
	Drain time.Duration
}

// Configure sets custom timeout values. Zero values in the config are
// ignored, keeping the current values.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Drain > 0 {
		drain = cfg.Drain
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	drain = DefaultDrain
}

// ConfigureFromEnv reads TIMEOUT_PING and TIMEOUT_DRAIN (e.g. "2s",
// "500ms"). Unset or invalid values are skipped. Returns the number of
// timeouts configured.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	configured := 0

	if d, ok := envDuration("TIMEOUT_PING"); ok {
		ping = d
		configured++
	}
	if d, ok := envDuration("TIMEOUT_DRAIN"); ok {
		drain = d
		configured++
	}
	return configured
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Drain: drain}
}

// WithTimeout creates a context with timeout and returns a cancel function
// that logs a warning if the deadline was exceeded.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.Log, "upstream ping")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
