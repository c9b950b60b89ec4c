package service

import (
	"context"
	"sync"
	"time"

	"wallet_core/internal/app/port"
	"wallet_core/internal/domain/entity"
	"wallet_core/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

// priceSyncServiceImpl implements port.PriceService. It owns the process-wide
// price snapshot: one immediate fetch on Start, then a fetch per poll
// interval until Stop. A failed fetch never touches the previous snapshot.
type priceSyncServiceImpl struct {
	marketClient port.MarketDataClient
	catalog      port.CatalogProvider
	logger       port.Logger
	pollInterval time.Duration
	fetchTimeout time.Duration

	mu          sync.RWMutex
	snapshot    entity.PriceSnapshot
	loading     bool
	errMsg      string
	lastUpdated *time.Time

	// generation identifies the current start/stop cycle. A fetch started
	// under an older generation completes normally but its result is
	// discarded instead of overwriting newer state.
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// flight collapses concurrent RefreshNow calls into a single request so
	// overlapping retries cannot interleave loading transitions.
	flight singleflight.Group

	now func() time.Time
}

// NewPriceSyncService creates a new instance of priceSyncServiceImpl.
func NewPriceSyncService(
	mc port.MarketDataClient,
	cp port.CatalogProvider,
	l port.Logger,
	pollInterval time.Duration,
	fetchTimeout time.Duration,
) port.PriceService {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &priceSyncServiceImpl{
		marketClient: mc,
		catalog:      cp,
		logger:       l,
		pollInterval: pollInterval,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// Start implements port.PriceService. Calling Start on a running engine is a
// no-op; the existing cycle keeps its schedule.
func (s *priceSyncServiceImpl) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		s.logger.Debug("Price sync already started, ignoring Start")
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	s.logger.Info("Price sync started", "poll_interval", s.pollInterval.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.refresh(loopCtx, gen)

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				s.logger.Info("Price sync polling stopped")
				return
			case <-ticker.C:
				s.refresh(loopCtx, gen)
			}
		}
	}()
}

// Stop implements port.PriceService. Safe to call when never started; safe to
// call twice. No further scheduled fetch starts after Stop returns, and a
// fetch already in flight is discarded by the generation check.
func (s *priceSyncServiceImpl) Stop() {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.cancel = nil
	s.generation++
	s.loading = false
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("Price sync stopped")
}

// RefreshNow implements port.PriceService. Concurrent callers share one
// in-flight fetch; whichever completion is last always leaves loading=false.
func (s *priceSyncServiceImpl) RefreshNow(ctx context.Context) error {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()
	return s.refresh(ctx, gen)
}

// State implements port.PriceService.
func (s *priceSyncServiceImpl) State() entity.PriceState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := entity.PriceState{
		Prices:  s.snapshot.Clone(),
		Loading: s.loading,
		Error:   s.errMsg,
	}
	if s.lastUpdated != nil {
		t := *s.lastUpdated
		state.LastUpdated = &t
	}
	return state
}

// refresh performs one batched fetch and applies the outcome atomically.
// Transport, status and parse failures all collapse into the single error
// string; none of them disturb the previous snapshot.
func (s *priceSyncServiceImpl) refresh(ctx context.Context, gen uint64) error {
	s.setLoading(gen, true)

	result, err, _ := s.flight.Do("refresh", func() (interface{}, error) {
		assets := s.catalog.Assets()
		lookupKeys := make([]string, 0, len(assets))
		for _, a := range assets {
			lookupKeys = append(lookupKeys, a.LookupKey)
		}

		fetchCtx, cancelFetch := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancelFetch()
		return s.marketClient.GetSimplePrices(fetchCtx, lookupKeys)
	})

	if err != nil {
		metrics.PriceRefreshTotal.WithLabelValues("error").Inc()
		s.applyFailure(gen, err)
		return err
	}

	snapshot, ok := result.(entity.PriceSnapshot)
	if !ok {
		// Cannot happen with the closure above; guard keeps loading honest.
		snapshot = entity.PriceSnapshot{}
	}
	metrics.PriceRefreshTotal.WithLabelValues("success").Inc()
	s.applySuccess(gen, snapshot)
	return nil
}

func (s *priceSyncServiceImpl) setLoading(gen uint64, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	s.loading = loading
}

func (s *priceSyncServiceImpl) applySuccess(gen uint64, snapshot entity.PriceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Loading must come down even when the result itself is stale.
	s.loading = false
	if gen != s.generation {
		s.logger.Debug("Discarding stale price refresh result", "generation", gen)
		return
	}

	updated := s.now()
	s.snapshot = snapshot
	s.errMsg = ""
	s.lastUpdated = &updated
	metrics.PriceSnapshotAge.Set(0)
	s.logger.Info("Price snapshot replaced", "quotes", len(snapshot))
}

func (s *priceSyncServiceImpl) applyFailure(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if gen != s.generation {
		s.logger.Debug("Discarding stale price refresh failure", "generation", gen)
		return
	}

	s.errMsg = "failed to fetch prices: " + err.Error()
	s.logger.Warn("Price refresh failed, keeping previous snapshot", "error", err)
}
