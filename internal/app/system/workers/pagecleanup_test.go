package workers_test

import (
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/pantaucorona/internal/app/system/workers"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSweeper struct {
	mu    sync.Mutex
	calls []time.Duration
	swept chan struct{}
}

func newFakeSweeper() *fakeSweeper {
	return &fakeSweeper{swept: make(chan struct{}, 16)}
}

func (f *fakeSweeper) Sweep(idle time.Duration) int {
	f.mu.Lock()
	f.calls = append(f.calls, idle)
	f.mu.Unlock()
	select {
	case f.swept <- struct{}{}:
	default:
	}
	return 1
}

func (f *fakeSweeper) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestPageCleanup_SweepsOnEveryTick(t *testing.T) {
	sw := newFakeSweeper()
	core, logs := observer.New(zapcore.InfoLevel)
	w := workers.NewPageCleanup(sw, zap.New(core), 5*time.Millisecond, 30*time.Minute)

	w.Start()
	for i := 0; i < 2; i++ {
		select {
		case <-sw.swept:
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not sweep")
		}
	}
	w.Stop()

	sw.mu.Lock()
	idle := sw.calls[0]
	sw.mu.Unlock()
	if idle != 30*time.Minute {
		t.Errorf("idle: got %v, want 30m", idle)
	}
	if logs.FilterMessage("evicted idle pages").Len() < 2 {
		t.Errorf("expected eviction logs, got %d", logs.FilterMessage("evicted idle pages").Len())
	}
	if logs.FilterMessage("page cleanup worker stopped").Len() != 1 {
		t.Error("expected a stop log")
	}
}

func TestPageCleanup_StopHaltsSweeps(t *testing.T) {
	sw := newFakeSweeper()
	w := workers.NewPageCleanup(sw, zap.NewNop(), time.Hour, time.Minute)

	w.Start()
	w.Stop()
	w.Stop()

	if n := sw.count(); n != 0 {
		t.Errorf("sweeps: got %d, want 0", n)
	}
}
