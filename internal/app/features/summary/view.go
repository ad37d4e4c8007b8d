// internal/app/features/summary/view.go
package summary

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	casestatsstore "github.com/dalemusser/pantaucorona/internal/app/store/casestats"
	"github.com/dalemusser/pantaucorona/internal/domain/models"
	"go.uber.org/zap"
)

// ApplyPolicy decides which completed fetch ends up on screen when several
// are in flight.
type ApplyPolicy string

const (
	// ApplyLatestIssued shows only the response to the most recently issued
	// request; older completions are dropped.
	ApplyLatestIssued ApplyPolicy = "latest_issued"
	// ApplyLatestCompleted shows whichever response arrives last, even if
	// it answers a scope the user has since switched away from.
	ApplyLatestCompleted ApplyPolicy = "latest_completed"
)

// ParseApplyPolicy accepts the config spelling of a policy. Empty means
// ApplyLatestIssued.
func ParseApplyPolicy(s string) (ApplyPolicy, error) {
	switch ApplyPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ApplyLatestIssued:
		return ApplyLatestIssued, nil
	case ApplyLatestCompleted:
		return ApplyLatestCompleted, nil
	}
	return "", fmt.Errorf("unknown summary apply policy %q", s)
}

// Config holds the fixed inputs of a summary view.
type Config struct {
	HomeCountry string      // scope used when Global is false
	Global      bool        // initial scope
	Policy      ApplyPolicy // zero value means ApplyLatestIssued
}

// Snapshot is a consistent copy of the view state.
type Snapshot struct {
	Global     bool                  // selected scope
	Shown      *models.Scope         // scope of the displayed summary
	Summary    *models.SummaryResult // nil until the first success
	Outcome    models.Outcome        // last applied completion
	Generation uint64                // requests issued so far
	InFlight   int                   // requests not yet completed
}

// View holds the aggregate counters for one mounted page.
//
// Every scope change issues exactly one fetch. Failures keep the previous
// summary and are logged; they are also recorded in Outcome.
type View struct {
	fetch  casestatsstore.Fetcher
	log    *zap.Logger
	home   string
	policy ApplyPolicy
	now    func() time.Time

	mu         sync.Mutex
	mounted    bool
	closed     bool
	global     bool
	summary    *models.SummaryResult
	shown      *models.Scope
	generation uint64
	pending    int
	outcome    models.Outcome

	inflight sync.WaitGroup
}

// NewView builds an unmounted view.
func NewView(fetch casestatsstore.Fetcher, cfg Config, logger *zap.Logger) *View {
	policy := cfg.Policy
	if policy == "" {
		policy = ApplyLatestIssued
	}
	return &View{
		fetch:  fetch,
		log:    logger,
		home:   cfg.HomeCountry,
		policy: policy,
		now:    time.Now,
		global: cfg.Global,
	}
}

// Mount issues the first fetch. Later calls do nothing.
//
// ctx bounds every fetch the view issues, so it should live as long as the
// page, not a single HTTP request.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted {
		return
	}
	v.mounted = true
	v.issueLocked(ctx)
}

// SetScope selects global (true) or home-country (false) figures and, when
// the selection changes on a mounted view, issues one fetch. It reports
// whether the selection changed.
func (v *View) SetScope(ctx context.Context, global bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.global == global {
		return false
	}
	v.global = global
	if v.mounted {
		v.issueLocked(ctx)
	}
	return true
}

// Toggle flips the scope and returns the new selection.
func (v *View) Toggle(ctx context.Context) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.global = !v.global
	if v.mounted {
		v.issueLocked(ctx)
	}
	return v.global
}

// Global reports the selected scope.
func (v *View) Global() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.global
}

// HomeCountry is the country shown when the global scope is off.
func (v *View) HomeCountry() string { return v.home }

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := Snapshot{
		Global:     v.global,
		Outcome:    v.outcome,
		Generation: v.generation,
		InFlight:   v.pending,
	}
	if v.summary != nil {
		sum := *v.summary
		s.Summary = &sum
	}
	if v.shown != nil {
		shown := *v.shown
		s.Shown = &shown
	}
	return s
}

// Wait blocks until every issued fetch has completed.
func (v *View) Wait() {
	v.inflight.Wait()
}

// Close stops the view from issuing further fetches and waits for the ones
// already in flight. Scope changes after Close are recorded but fetch
// nothing.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.inflight.Wait()
}

func (v *View) scopeLocked() models.Scope {
	if v.global {
		return models.GlobalScope()
	}
	return models.CountryScope(v.home)
}

func (v *View) issueLocked(ctx context.Context) {
	if v.closed {
		return
	}
	v.generation++
	v.pending++
	gen := v.generation
	scope := v.scopeLocked()

	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()
		res, err := v.fetch.Summary(ctx, scope)
		v.complete(gen, scope, res, err)
	}()
}

func (v *View) complete(gen uint64, scope models.Scope, res models.SummaryResult, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending--

	if v.policy == ApplyLatestIssued && gen != v.generation {
		v.log.Debug("discarding stale summary response",
			zap.String("scope", scope.String()),
			zap.Uint64("generation", gen),
			zap.Uint64("latest", v.generation))
		return
	}

	if err != nil {
		v.outcome = models.Outcome{Err: err, At: v.now()}
		v.log.Error("summary fetch failed",
			zap.String("scope", scope.String()),
			zap.Uint64("generation", gen),
			zap.Error(err))
		return
	}

	v.summary = &res
	v.shown = &scope
	v.outcome = models.Outcome{At: v.now()}
	v.log.Debug("summary updated",
		zap.String("scope", scope.String()),
		zap.Uint64("generation", gen))
}
