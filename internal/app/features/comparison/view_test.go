package comparison_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/pantaucorona/internal/app/features/comparison"
	casestatsstore "github.com/dalemusser/pantaucorona/internal/app/store/casestats"
	"github.com/dalemusser/pantaucorona/internal/app/system/format"
	"github.com/dalemusser/pantaucorona/internal/domain/models"
	"github.com/dalemusser/pantaucorona/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var updated = time.UnixMilli(1700000000000).UTC()

func entries(names ...string) []models.CountryEntry {
	out := make([]models.CountryEntry, len(names))
	for i, n := range names {
		out[i] = models.CountryEntry{Name: n}
	}
	return out
}

func newView(t *testing.T, f *testutil.FakeFetcher, names ...string) (*comparison.View, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	v := comparison.NewView(f, entries(names...), zap.New(core))
	t.Cleanup(v.Wait)
	return v, logs
}

func TestLoadingBeforeMount(t *testing.T) {
	f := testutil.NewFakeFetcher()
	v, _ := newView(t, f, "A")

	snap := v.Snapshot()
	assert.True(t, snap.Loading)
	assert.Nil(t, snap.Results)
	assert.Empty(t, f.Calls())
}

func TestMount_AllSucceed_RowsInListOrder(t *testing.T) {
	f := testutil.NewFakeFetcher()
	f.Respond(models.CountryScope("A"), testutil.Summary(1000, 900, 50, updated))
	f.Respond(models.CountryScope("B"), testutil.Summary(20, 0, 2, updated))
	v, logs := newView(t, f, "A", "B")

	v.Mount(context.Background())
	v.Wait()

	snap := v.Snapshot()
	assert.False(t, snap.Loading)
	require.Len(t, snap.Results, 2)
	assert.Equal(t, "A", snap.Results[0].Country.Name)
	assert.Equal(t, "B", snap.Results[1].Country.Name)
	assert.True(t, snap.Outcome.OK())

	vm := comparison.BuildViewModel(snap, format.Default())
	assert.Equal(t, []string{"Name", "Positive", "Recovered", "Deaths"}, vm.Headers)
	assert.Equal(t, []comparison.Row{
		{Name: "A", Positive: "1,000", Recovered: "900", Deaths: "50"},
		{Name: "B", Positive: "20", Recovered: "0", Deaths: "2"},
	}, vm.Rows)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestMount_IssuesExactlyNRequests(t *testing.T) {
	for _, n := range []int{0, 1, 5, 12} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			f := testutil.NewFakeFetcher()
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("C%02d", i)
				f.Respond(models.CountryScope(names[i]), testutil.Summary(int64(i+1), 1, 1, updated))
			}
			v, _ := newView(t, f, names...)

			v.Mount(context.Background())
			v.Mount(context.Background())
			v.Wait()

			assert.Len(t, f.Calls(), n)
			snap := v.Snapshot()
			assert.False(t, snap.Loading)
			assert.Len(t, snap.Results, n)
			assert.Len(t, comparison.BuildViewModel(snap, format.Default()).Rows, n)
		})
	}
}

func TestMount_OneFailure_StaysLoadingAndLogsOnce(t *testing.T) {
	f := testutil.NewFakeFetcher()
	f.Respond(models.CountryScope("A"), testutil.Summary(1000, 900, 50, updated))
	f.Fail(models.CountryScope("B"), &casestatsstore.NetworkError{URL: "http://stats.test/countries/B", Err: errors.New("connection refused")})
	v, logs := newView(t, f, "A", "B")

	v.Mount(context.Background())
	v.Wait()

	snap := v.Snapshot()
	assert.True(t, snap.Loading)
	assert.Nil(t, snap.Results)
	assert.True(t, snap.Outcome.Failed())
	assert.True(t, casestatsstore.IsNetwork(snap.Outcome.Err))

	vm := comparison.BuildViewModel(snap, format.Default())
	assert.True(t, vm.Loading)
	assert.Empty(t, vm.Rows)
	assert.Empty(t, vm.Headers)

	assert.Equal(t, 1, logs.FilterMessage("comparison batch failed").Len())

	// Stuck state is stable: mounting again or re-reading changes nothing.
	v.Mount(context.Background())
	v.Wait()
	assert.Equal(t, snap, v.Snapshot())
	assert.Equal(t, 1, logs.FilterMessage("comparison batch failed").Len())
	assert.Len(t, f.Calls(), 2)
}

func TestMount_MissingFieldFailsFast(t *testing.T) {
	f := testutil.NewFakeFetcher()
	f.Respond(models.CountryScope("A"), testutil.Summary(1, 1, 1, updated))
	f.Respond(models.CountryScope("B"), models.SummaryResult{
		Confirmed: &models.CaseStat{Value: 3},
		Deaths:    &models.CaseStat{Value: 1},
	})
	v, _ := newView(t, f, "A", "B")

	v.Mount(context.Background())
	v.Wait()

	snap := v.Snapshot()
	assert.True(t, snap.Loading)
	assert.True(t, casestatsstore.IsParse(snap.Outcome.Err))

	var missing *models.MissingFieldError
	require.ErrorAs(t, snap.Outcome.Err, &missing)
	assert.Equal(t, "recovered", missing.Field)
}

func TestMount_FailureCancelsHeldRequests(t *testing.T) {
	f := testutil.NewFakeFetcher()
	f.Respond(models.CountryScope("slow"), testutil.Summary(1, 1, 1, updated))
	f.Fail(models.CountryScope("bad"), errors.New("boom"))
	release := f.Hold(models.CountryScope("slow"))
	defer release()

	v, _ := newView(t, f, "slow", "bad")
	v.Mount(context.Background())

	done := make(chan struct{})
	go func() {
		v.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not finish after a failure")
	}

	snap := v.Snapshot()
	assert.True(t, snap.Loading)
	assert.EqualError(t, snap.Outcome.Err, "bad: boom")
}

func TestMount_ParentCancelledAbandonsBatch(t *testing.T) {
	f := testutil.NewFakeFetcher()
	f.Respond(models.CountryScope("A"), testutil.Summary(1, 1, 1, updated))
	release := f.Hold(models.CountryScope("A"))
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	v, _ := newView(t, f, "A")
	v.Mount(ctx)
	cancel()
	v.Wait()

	snap := v.Snapshot()
	assert.True(t, snap.Loading)
	assert.ErrorIs(t, snap.Outcome.Err, context.Canceled)
}

func TestCountriesIsACopy(t *testing.T) {
	f := testutil.NewFakeFetcher()
	v, _ := newView(t, f, "A", "B")

	list := v.Countries()
	list[0].Name = "Z"
	assert.Equal(t, "A", v.Countries()[0].Name)
}

func TestClose_BeforeMountSkipsBatch(t *testing.T) {
	f := testutil.NewFakeFetcher()
	f.Respond(models.CountryScope("A"), testutil.Summary(1, 1, 1, updated))
	v, _ := newView(t, f, "A")

	v.Close()
	v.Mount(context.Background())

	assert.Empty(t, f.Calls())
	assert.True(t, v.Snapshot().Loading)
}

func TestClose_WaitsForRunningBatch(t *testing.T) {
	f := testutil.NewFakeFetcher()
	f.Respond(models.CountryScope("A"), testutil.Summary(1, 1, 1, updated))
	release := f.Hold(models.CountryScope("A"))
	v, _ := newView(t, f, "A")
	ctx, cancel := context.WithCancel(context.Background())

	v.Mount(ctx)
	cancel()
	v.Close()

	snap := v.Snapshot()
	assert.True(t, snap.Loading)
	assert.ErrorIs(t, snap.Outcome.Err, context.Canceled)
	release()
}
