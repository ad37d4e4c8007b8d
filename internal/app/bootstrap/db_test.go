package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/pantaucorona/internal/app/system/timeouts"
	"github.com/dalemusser/pantaucorona/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConnectDB_BuildsDeps(t *testing.T) {
	up := testutil.NewUpstream(t)
	up.Handle("/", http.StatusOK, testutil.SummaryJSON(1, 1, 1, 0))

	cfg := validAppConfig()
	cfg.APIBaseURL = up.URL
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps, err := ConnectDB(ctx, &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	t.Cleanup(deps.Pages.Close)

	if deps.CaseStats.BaseURL() != up.URL {
		t.Errorf("BaseURL: got %q, want %q", deps.CaseStats.BaseURL(), up.URL)
	}
	if up.Hits("/") != 1 {
		t.Errorf("startup ping hits: got %d, want 1", up.Hits("/"))
	}

	deps.Pages.Mount(false)
	families, err := deps.Metrics.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "pantaucorona_mounted_pages" {
			found = true
			if v := mf.GetMetric()[0].GetGauge().GetValue(); v != 1 {
				t.Errorf("mounted_pages: got %v, want 1", v)
			}
		}
	}
	if !found {
		t.Error("mounted_pages gauge not registered")
	}
}

func TestConnectDB_UnreachableAPIIsNotFatal(t *testing.T) {
	up := testutil.NewUpstream(t)
	base := up.URL
	up.Close()

	cfg := validAppConfig()
	cfg.APIBaseURL = base
	core, logs := observer.New(zapcore.WarnLevel)

	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, zap.New(core))
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	t.Cleanup(deps.Pages.Close)

	if logs.FilterMessage("statistics API not reachable at startup").Len() != 1 {
		t.Error("expected an unreachable warning")
	}
}

func TestConnectDB_AppliesConfiguredTimeouts(t *testing.T) {
	t.Cleanup(timeouts.Reset)
	up := testutil.NewUpstream(t)
	up.Handle("/", http.StatusOK, testutil.SummaryJSON(1, 1, 1, 0))

	cfg := validAppConfig()
	cfg.APIBaseURL = up.URL
	cfg.PingTimeout = 750 * time.Millisecond
	cfg.DrainTimeout = 3 * time.Second

	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	t.Cleanup(deps.Pages.Close)

	if got := timeouts.Ping(); got != 750*time.Millisecond {
		t.Errorf("Ping: got %v, want 750ms", got)
	}
	if got := timeouts.Drain(); got != 3*time.Second {
		t.Errorf("Drain: got %v, want 3s", got)
	}
}

func TestEnsureSchema_WarnsOnDuplicates(t *testing.T) {
	cfg := validAppConfig()
	cfg.Countries = parseCountries("A,B,A")
	core, logs := observer.New(zapcore.WarnLevel)

	if err := EnsureSchema(context.Background(), &config.CoreConfig{}, cfg, DBDeps{}, zap.New(core)); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if n := logs.FilterField(zap.String("country", "A")).Len(); n != 1 {
		t.Errorf("duplicate warnings: got %d, want 1", n)
	}
}

func TestDrain(t *testing.T) {
	t.Run("finishes", func(t *testing.T) {
		if err := drain(context.Background(), func() {}, time.Second, testLogger()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("gives up after limit", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		if err := drain(context.Background(), func() { <-block }, 10*time.Millisecond, testLogger()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("context ends", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := drain(ctx, func() { <-block }, time.Hour, testLogger())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	})
}

func TestShutdown_StopsWorkerAndClosesPages(t *testing.T) {
	up := testutil.NewUpstream(t)
	up.Handle("/", http.StatusOK, testutil.SummaryJSON(1, 1, 1, 0))
	cfg := validAppConfig()
	cfg.APIBaseURL = up.URL

	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	deps.Cleanup.Start()
	p := deps.Pages.Mount(false)

	if err := Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if deps.Pages.Len() != 0 {
		t.Errorf("pages after shutdown: got %d, want 0", deps.Pages.Len())
	}
	if p.Context().Err() == nil {
		t.Error("page not cancelled")
	}
}
