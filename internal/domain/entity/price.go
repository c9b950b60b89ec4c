package entity

import "time"

// PriceQuote is the latest market data for a single lookup key.
type PriceQuote struct {
	PriceUSD     float64   `json:"usd"`
	Change24hPct float64   `json:"usd_24h_change"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// PriceSnapshot maps lookup keys to their latest quotes. A snapshot is
// replaced wholesale on every successful refresh, never partially merged.
type PriceSnapshot map[string]PriceQuote

// Quote returns the quote for a lookup key. Absent keys report ok=false;
// callers treat that as price zero, not as an error.
func (s PriceSnapshot) Quote(lookupKey string) (PriceQuote, bool) {
	q, ok := s[lookupKey]
	return q, ok
}

// Clone returns an independent copy so consumers can hold on to a snapshot
// while the engine swaps in a newer one.
func (s PriceSnapshot) Clone() PriceSnapshot {
	if s == nil {
		return nil
	}
	out := make(PriceSnapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// PriceState is the externally visible state of the price sync engine.
type PriceState struct {
	Prices      PriceSnapshot `json:"prices"`
	Loading     bool          `json:"loading"`
	Error       string        `json:"error,omitempty"`
	LastUpdated *time.Time    `json:"lastUpdated,omitempty"`
}
