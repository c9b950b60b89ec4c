package entity

// AssetValuation is the derived view of one catalog asset against the
// current price snapshot.
type AssetValuation struct {
	AssetID      string  `json:"assetId"`
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	PriceUSD     float64 `json:"priceUsd"`
	ValueUSD     float64 `json:"valueUsd"`
	Change24hPct float64 `json:"change24hPct"`
	PriceKnown   bool    `json:"priceKnown"`
}

// ValuationResult is a pure projection of catalog + snapshot. It is
// recomputed on every request and never stored independently.
type ValuationResult struct {
	Assets           []AssetValuation `json:"assets"`
	NetWorthUSD      float64          `json:"netWorthUsd"`
	PriorNetWorthUSD float64          `json:"priorNetWorthUsd"`
	OverallChange24h float64          `json:"overallChange24hPct"`
}
