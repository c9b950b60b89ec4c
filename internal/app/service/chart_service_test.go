package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"wallet_core/internal/domain/entity"
)

func seriesFor(lookupKey string, window entity.ChartWindow, prices ...float64) entity.ChartSeries {
	s := entity.ChartSeries{LookupKey: lookupKey, Window: window}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range prices {
		s.Points = append(s.Points, entity.ChartPoint{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			PriceUSD:  p,
		})
	}
	return s
}

func TestChartService_LoadSuccess(t *testing.T) {
	fake := &fakeMarketClient{
		chartFunc: func(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error) {
			return seriesFor(lookupKey, window, 100, 110, 99, 120), nil
		},
	}
	svc := NewChartService(fake, nopLogger{}, time.Second, time.Minute)

	state := svc.Load(context.Background(), "bitcoin", entity.WindowMonth)

	if state.Error != "" {
		t.Fatalf("Error = %q, want empty", state.Error)
	}
	if len(state.Series.Points) != 4 {
		t.Fatalf("points = %d, want 4", len(state.Series.Points))
	}
	if !almostEqual(state.ChangePct, 20, 1e-9) {
		t.Errorf("ChangePct = %v, want 20", state.ChangePct)
	}
	if got := svc.State(); len(got.Series.Points) != 4 {
		t.Error("State() must reflect the loaded series")
	}
}

func TestChartService_LoadFailure(t *testing.T) {
	fake := &fakeMarketClient{
		chartFunc: func(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error) {
			return entity.ChartSeries{}, fmt.Errorf("status 500")
		},
	}
	svc := NewChartService(fake, nopLogger{}, time.Second, time.Minute)

	state := svc.Load(context.Background(), "bitcoin", entity.Window24h)

	if state.Error == "" {
		t.Error("Error must be set after a failed fetch")
	}
	if len(state.Series.Points) != 0 {
		t.Error("a failed fetch must yield an empty series")
	}
	if state.ChangePct != 0 {
		t.Errorf("ChangePct = %v, want 0 for empty series", state.ChangePct)
	}
	if state.Loading {
		t.Error("Loading must be false after completion")
	}
}

func TestChartService_StaleWindowDiscarded(t *testing.T) {
	releaseD := make(chan struct{})
	startedD := make(chan struct{})
	fake := &fakeMarketClient{
		chartFunc: func(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error) {
			if window == entity.Window24h {
				close(startedD)
				<-releaseD
				return seriesFor(lookupKey, window, 1, 2), nil
			}
			return seriesFor(lookupKey, window, 100, 150), nil
		},
	}
	svc := NewChartService(fake, nopLogger{}, time.Minute, time.Minute)

	dayDone := make(chan entity.ChartState, 1)
	go func() {
		dayDone <- svc.Load(context.Background(), "bitcoin", entity.Window24h)
	}()
	<-startedD

	// Window changes to a year while the day fetch is in flight.
	yearState := svc.Load(context.Background(), "bitcoin", entity.WindowYear)
	if yearState.Series.Window != entity.WindowYear {
		t.Fatalf("window = %q, want year", yearState.Series.Window)
	}

	close(releaseD)
	got := <-dayDone

	// The late day response must not overwrite the year series being shown.
	if got.Series.Window != entity.WindowYear {
		t.Errorf("stale day response was applied: shown window = %q", got.Series.Window)
	}
	if state := svc.State(); state.Series.Window != entity.WindowYear {
		t.Errorf("State() window = %q, want year", state.Series.Window)
	}
}

func TestChartService_CacheHitSkipsFetch(t *testing.T) {
	calls := 0
	fake := &fakeMarketClient{
		chartFunc: func(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error) {
			calls++
			return seriesFor(lookupKey, window, 100, 120), nil
		},
	}
	svc := NewChartService(fake, nopLogger{}, time.Second, time.Minute)

	svc.Load(context.Background(), "bitcoin", entity.WindowWeek)
	state := svc.Load(context.Background(), "bitcoin", entity.WindowWeek)

	if calls != 1 {
		t.Errorf("upstream fetches = %d, want 1 (second load served from cache)", calls)
	}
	if !almostEqual(state.ChangePct, 20, 1e-9) {
		t.Errorf("ChangePct = %v, want 20", state.ChangePct)
	}

	// A different window is a different selection and misses the cache.
	svc.Load(context.Background(), "bitcoin", entity.WindowAll)
	if calls != 2 {
		t.Errorf("upstream fetches = %d, want 2 after a new window", calls)
	}
}

func TestChartService_ErrorNotCached(t *testing.T) {
	var failing = true
	fake := &fakeMarketClient{
		chartFunc: func(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error) {
			if failing {
				return entity.ChartSeries{}, fmt.Errorf("status 429")
			}
			return seriesFor(lookupKey, window, 50, 55), nil
		},
	}
	svc := NewChartService(fake, nopLogger{}, time.Second, time.Minute)

	if state := svc.Load(context.Background(), "ethereum", entity.WindowMonth); state.Error == "" {
		t.Fatal("expected error state")
	}

	failing = false
	state := svc.Load(context.Background(), "ethereum", entity.WindowMonth)
	if state.Error != "" {
		t.Errorf("retry after failure should succeed, got error %q", state.Error)
	}
	if !almostEqual(state.ChangePct, 10, 1e-9) {
		t.Errorf("ChangePct = %v, want 10", state.ChangePct)
	}
}
