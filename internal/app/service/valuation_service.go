package service

import (
	"wallet_core/internal/domain/entity"
)

// ComputeValuation derives per-asset values, aggregate net worth and the
// weighted 24h change from the catalog and the latest price snapshot. It is
// a pure projection: deterministic, side-effect-free, cheap enough to run on
// every request instead of being cached.
//
// An asset whose lookup key is absent from the snapshot contributes zero
// value; that is expected while prices are still loading, not an error.
func ComputeValuation(assets []entity.Asset, snapshot entity.PriceSnapshot) entity.ValuationResult {
	result := entity.ValuationResult{
		Assets: make([]entity.AssetValuation, 0, len(assets)),
	}

	for _, asset := range assets {
		qty, err := asset.Quantity()
		if err != nil {
			// Catalog validation rejects these at startup; a row that slips
			// through contributes nothing rather than poisoning the total.
			qty = 0
		}

		quote, known := snapshot.Quote(asset.LookupKey)
		value := quote.PriceUSD * qty

		row := entity.AssetValuation{
			AssetID:      asset.ID,
			Symbol:       asset.Symbol,
			Quantity:     qty,
			PriceUSD:     quote.PriceUSD,
			ValueUSD:     value,
			Change24hPct: quote.Change24hPct,
			PriceKnown:   known,
		}
		result.Assets = append(result.Assets, row)
		result.NetWorthUSD += value

		// Reconstruct yesterday's value from today's: value / (1 + pct/100).
		// A -100% change makes the divisor zero; that asset's prior value is
		// unknowable and contributes nothing.
		divisor := 1 + quote.Change24hPct/100
		if divisor != 0 {
			result.PriorNetWorthUSD += value / divisor
		}
	}

	if result.PriorNetWorthUSD > 0 {
		result.OverallChange24h = (result.NetWorthUSD - result.PriorNetWorthUSD) / result.PriorNetWorthUSD * 100
	}
	return result
}
