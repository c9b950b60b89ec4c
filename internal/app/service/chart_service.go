package service

import (
	"context"
	"sync"
	"time"

	"wallet_core/internal/app/port"
	"wallet_core/internal/domain/entity"
	"wallet_core/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
)

// ChartService fetches historical price series, one (lookup key, window)
// selection at a time. Changing either side of the selection invalidates any
// in-flight fetch: a late response for a superseded selection is discarded,
// never applied over the series being shown.
type ChartService struct {
	marketClient port.MarketDataClient
	logger       port.Logger
	fetchTimeout time.Duration

	mu    sync.Mutex
	state entity.ChartState

	// reqSeq tags each Load; a completion whose tag is no longer current
	// belongs to a superseded selection.
	reqSeq uint64

	// cache keeps recently fetched series per selection so flipping back to
	// a recent window does not hit the upstream API again.
	cache *gocache.Cache
}

// NewChartService creates a new ChartService.
func NewChartService(mc port.MarketDataClient, l port.Logger, fetchTimeout, cacheTTL time.Duration) *ChartService {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &ChartService{
		marketClient: mc,
		logger:       l,
		fetchTimeout: fetchTimeout,
		cache:        gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func cacheKey(lookupKey string, window entity.ChartWindow) string {
	return lookupKey + "|" + string(window)
}

// Load fetches the series for the given selection and applies it unless the
// selection changed while the fetch was in flight. On failure the state
// carries an empty series plus the error marker; Load never panics or lets
// the client error escape unwrapped into state.
func (s *ChartService) Load(ctx context.Context, lookupKey string, window entity.ChartWindow) entity.ChartState {
	s.mu.Lock()
	s.reqSeq++
	seq := s.reqSeq
	s.state.Loading = true

	if cached, ok := s.cache.Get(cacheKey(lookupKey, window)); ok {
		series := cached.(entity.ChartSeries)
		s.state = entity.ChartState{
			Series:    series,
			ChangePct: series.ChangePct(),
		}
		snapshot := s.state
		s.mu.Unlock()
		metrics.ChartFetchTotal.WithLabelValues("cached").Inc()
		return snapshot
	}
	s.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	series, err := s.marketClient.GetMarketChart(fetchCtx, lookupKey, window)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.reqSeq {
		s.logger.Debug("Discarding stale chart response",
			"lookupKey", lookupKey, "window", string(window))
		metrics.ChartFetchTotal.WithLabelValues("stale").Inc()
		return s.state
	}

	if err != nil {
		metrics.ChartFetchTotal.WithLabelValues("error").Inc()
		s.state = entity.ChartState{
			Series: entity.ChartSeries{LookupKey: lookupKey, Window: window},
			Error:  "failed to fetch chart: " + err.Error(),
		}
		s.logger.Warn("Chart fetch failed", "lookupKey", lookupKey, "window", string(window), "error", err)
		return s.state
	}

	metrics.ChartFetchTotal.WithLabelValues("success").Inc()
	s.cache.Set(cacheKey(lookupKey, window), series, gocache.DefaultExpiration)
	s.state = entity.ChartState{
		Series:    series,
		ChangePct: series.ChangePct(),
	}
	return s.state
}

// State returns the series currently shown.
func (s *ChartService) State() entity.ChartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
