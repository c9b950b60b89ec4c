package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PriceRefreshTotal counts refresh cycles of the price sync engine by outcome.
	PriceRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_price_refresh_total",
			Help: "Total price snapshot refresh attempts, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	// PriceSnapshotAge reports seconds since the last successful refresh.
	PriceSnapshotAge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallet_price_snapshot_age_seconds",
			Help: "Age of the current price snapshot in seconds.",
		},
	)

	// ChartFetchTotal counts chart series fetches by outcome.
	ChartFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_chart_fetch_total",
			Help: "Total chart series fetches, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	// SwapQuoteTotal counts computed swap quotes by availability.
	SwapQuoteTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_swap_quote_total",
			Help: "Total swap quotes computed, labeled by availability.",
		},
		[]string{"available"},
	)

	// MarketDataRequestErrors counts failed upstream market-data requests.
	MarketDataRequestErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_market_data_request_errors_total",
			Help: "Total failed requests to the market-data API.",
		},
	)

	// MarketDataRequestDuration observes upstream request latency.
	MarketDataRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wallet_market_data_request_duration_seconds",
			Help:    "Latency of market-data API requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once from main before serving /metrics.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		PriceRefreshTotal,
		PriceSnapshotAge,
		ChartFetchTotal,
		SwapQuoteTotal,
		MarketDataRequestErrors,
		MarketDataRequestDuration,
	)
}
