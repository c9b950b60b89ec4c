package service

import (
	"context"
	"sync"

	"wallet_core/internal/app/port"
	"wallet_core/internal/domain/entity"
	"wallet_core/internal/infrastructure/assetloader"
)

// fakeMarketClient implements port.MarketDataClient with pluggable behavior.
type fakeMarketClient struct {
	mu         sync.Mutex
	priceCalls int
	chartCalls int
	pricesFunc func(ctx context.Context, lookupKeys []string) (entity.PriceSnapshot, error)
	chartFunc  func(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error)
}

func (f *fakeMarketClient) GetSimplePrices(ctx context.Context, lookupKeys []string) (entity.PriceSnapshot, error) {
	f.mu.Lock()
	f.priceCalls++
	fn := f.pricesFunc
	f.mu.Unlock()
	if fn == nil {
		return entity.PriceSnapshot{}, nil
	}
	return fn(ctx, lookupKeys)
}

func (f *fakeMarketClient) GetMarketChart(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error) {
	f.mu.Lock()
	f.chartCalls++
	fn := f.chartFunc
	f.mu.Unlock()
	if fn == nil {
		return entity.ChartSeries{LookupKey: lookupKey, Window: window}, nil
	}
	return fn(ctx, lookupKey, window)
}

func (f *fakeMarketClient) priceCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.priceCalls
}

// nopLogger satisfies port.Logger for tests.
type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// fakeAuthenticator satisfies port.Authenticator with a fixed outcome.
type fakeAuthenticator struct {
	approve bool
	err     error
}

func (a *fakeAuthenticator) Authenticate(ctx context.Context, prompt string) (bool, error) {
	return a.approve, a.err
}

func testCatalog() port.CatalogProvider {
	assets := []entity.Asset{
		{ID: "1", Name: "Bitcoin", Symbol: "BTC", LookupKey: "bitcoin", Chain: "Bitcoin", Amount: "0.2876"},
		{ID: "2", Name: "Ethereum", Symbol: "ETH", LookupKey: "ethereum", Chain: "Ethereum", Amount: "3.21"},
		{ID: "3", Name: "USDT", Symbol: "USDT", LookupKey: "tether", Chain: "Ethereum", Amount: "1250"},
	}
	c, err := assetloader.New(assets)
	if err != nil {
		panic(err)
	}
	return c
}
