package port

import (
	"context"

	"wallet_core/internal/domain/entity"
)

// MarketDataClient defines the interface for the external market-data service.
type MarketDataClient interface {
	// GetSimplePrices fetches current USD prices and 24h change for all
	// lookup keys in one batched request.
	GetSimplePrices(ctx context.Context, lookupKeys []string) (entity.PriceSnapshot, error)

	// GetMarketChart fetches a historical price series for one lookup key
	// over the given window.
	GetMarketChart(ctx context.Context, lookupKey string, window entity.ChartWindow) (entity.ChartSeries, error)
}
