package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/pantaucorona/internal/domain/models"
)

// TestContext returns a context bounded to a few seconds for test I/O.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// SummaryJSON renders a payload shaped like the statistics API response.
func SummaryJSON(confirmed, recovered, deaths, lastUpdateMillis int64) string {
	return fmt.Sprintf(
		`{"confirmed":{"value":%d,"detail":"x/confirmed"},"recovered":{"value":%d,"detail":"x/recovered"},"deaths":{"value":%d,"detail":"x/deaths"},"lastUpdate":%d}`,
		confirmed, recovered, deaths, lastUpdateMillis,
	)
}

// Summary builds a fully populated SummaryResult.
func Summary(confirmed, recovered, deaths int64, lastUpdate time.Time) models.SummaryResult {
	return models.SummaryResult{
		Confirmed:  &models.CaseStat{Value: confirmed},
		Recovered:  &models.CaseStat{Value: recovered},
		Deaths:     &models.CaseStat{Value: deaths},
		LastUpdate: models.Timestamp{Time: lastUpdate},
	}
}

// FakeResponse is the canned answer for one scope.
type FakeResponse struct {
	Result models.SummaryResult
	Err    error
}

// FakeFetcher is an in-memory casestats Fetcher. Calls for a held scope
// block until released, which lets tests control completion order.
type FakeFetcher struct {
	mu        sync.Mutex
	responses map[string]FakeResponse
	holds     map[string]chan struct{}
	calls     []models.Scope
}

// NewFakeFetcher returns an empty FakeFetcher. Unknown scopes answer with
// an error.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{
		responses: make(map[string]FakeResponse),
		holds:     make(map[string]chan struct{}),
	}
}

// Respond sets the answer for scope.
func (f *FakeFetcher) Respond(scope models.Scope, result models.SummaryResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[scope.String()] = FakeResponse{Result: result}
}

// Fail makes every fetch for scope return err.
func (f *FakeFetcher) Fail(scope models.Scope, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[scope.String()] = FakeResponse{Err: err}
}

// Hold blocks fetches for scope until the returned release func is called.
func (f *FakeFetcher) Hold(scope models.Scope) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[scope.String()] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.holds, scope.String())
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns the scopes fetched so far, in call order.
func (f *FakeFetcher) Calls() []models.Scope {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Scope, len(f.calls))
	copy(out, f.calls)
	return out
}

// Summary implements casestatsstore.Fetcher.
func (f *FakeFetcher) Summary(ctx context.Context, scope models.Scope) (models.SummaryResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, scope)
	hold := f.holds[scope.String()]
	resp, ok := f.responses[scope.String()]
	f.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return models.SummaryResult{}, ctx.Err()
		}
	}

	if !ok {
		return models.SummaryResult{}, fmt.Errorf("no fake response for %q", scope.String())
	}
	return resp.Result, resp.Err
}
