// internal/app/features/comparison/view.go
package comparison

import (
	"context"
	"fmt"
	"sync"
	"time"

	casestatsstore "github.com/dalemusser/pantaucorona/internal/app/store/casestats"
	"github.com/dalemusser/pantaucorona/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Snapshot is a consistent copy of the table state.
type Snapshot struct {
	Loading bool
	Results []models.CountryResult // nil until the whole batch succeeds
	Outcome models.Outcome
}

// View fetches every configured country once, concurrently, and publishes
// the table only if all of them succeed. A single failure abandons the
// batch and leaves the view loading.
type View struct {
	fetch     casestatsstore.Fetcher
	log       *zap.Logger
	countries []models.CountryEntry
	now       func() time.Time

	once sync.Once

	mu      sync.Mutex
	closed  bool
	loading bool
	results []models.CountryResult
	outcome models.Outcome

	inflight sync.WaitGroup
}

// NewView builds a view for a fixed, ordered country list.
func NewView(fetch casestatsstore.Fetcher, countries []models.CountryEntry, logger *zap.Logger) *View {
	list := make([]models.CountryEntry, len(countries))
	copy(list, countries)
	return &View{
		fetch:     fetch,
		log:       logger,
		countries: list,
		now:       time.Now,
		loading:   true,
	}
}

// Countries returns the configured list in display order.
func (v *View) Countries() []models.CountryEntry {
	out := make([]models.CountryEntry, len(v.countries))
	copy(out, v.countries)
	return out
}

// Mount starts the batch. Only the first call has any effect.
//
// ctx bounds the batch; cancelling it abandons the batch like any other
// failure.
func (v *View) Mount(ctx context.Context) {
	v.once.Do(func() {
		if len(v.countries) == 0 {
			v.publish(nil)
			return
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed {
			return
		}
		v.inflight.Add(1)
		go func() {
			defer v.inflight.Done()
			v.run(ctx)
		}()
	})
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := Snapshot{Loading: v.loading, Outcome: v.outcome}
	if v.results != nil {
		s.Results = make([]models.CountryResult, len(v.results))
		copy(s.Results, v.results)
	}
	return s
}

// Wait blocks until the batch has finished, successfully or not.
func (v *View) Wait() {
	v.inflight.Wait()
}

// Close prevents a later Mount from starting the batch and waits for a
// batch already running.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.inflight.Wait()
}

func (v *View) run(ctx context.Context) {
	results, err := v.fetchAll(ctx)
	if err != nil {
		v.fail(err)
		return
	}
	v.publish(results)
}

// fetchAll issues one request per country. The first failure cancels the
// rest; their results are dropped.
func (v *View) fetchAll(ctx context.Context) ([]models.CountryResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := make([]models.CountryResult, len(v.countries))

	for i, c := range v.countries {
		g.Go(func() error {
			res, err := v.fetch.Summary(gctx, models.CountryScope(c.Name))
			if err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
			if err := res.RequireMetrics(); err != nil {
				return &casestatsstore.ParseError{Source: "countries/" + c.Name, Err: err}
			}
			results[i] = models.CountryResult{Country: c, Summary: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (v *View) publish(results []models.CountryResult) {
	if results == nil {
		results = []models.CountryResult{}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = results
	v.loading = false
	v.outcome = models.Outcome{At: v.now()}
	v.log.Debug("comparison table loaded", zap.Int("countries", len(results)))
}

func (v *View) fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.outcome = models.Outcome{Err: err, At: v.now()}
	v.log.Error("comparison batch failed",
		zap.Int("countries", len(v.countries)),
		zap.Error(err))
}
