package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"wallet_core/internal/app/port"
	"wallet_core/internal/domain/entity"
	"wallet_core/internal/pkg/utils"
	"wallet_core/pkg/metrics"
)

const unavailablePlaceholder = "-"

// ComputeSwapQuote derives the counter amount, exchange rate and fee for one
// swap input. It is pure: called on every input change, never cached.
//
// When either price is zero or the amount text does not parse, the quote is
// marked unavailable and carries placeholders instead of misleading numbers.
//
// The fee is computed on the USD value of the pay side but displayed with the
// destination asset's symbol without unit conversion. That asymmetry is the
// product's display contract; keep the magnitude in USD.
func ComputeSwapQuote(from, to entity.Asset, fromAmountText string, fromPrice, toPrice float64) entity.SwapQuote {
	quote := entity.SwapQuote{
		FromAssetID:     from.ID,
		ToAssetID:       to.ID,
		FeeSymbol:       strings.ToUpper(to.Symbol),
		ToAmountDisplay: unavailablePlaceholder,
		RateDisplay:     unavailablePlaceholder,
		FeeDisplay:      unavailablePlaceholder,
	}

	amount, ok := utils.ParseAmount(fromAmountText)
	if !ok || amount == 0 || fromPrice <= 0 || toPrice <= 0 {
		metrics.SwapQuoteTotal.WithLabelValues("false").Inc()
		return quote
	}

	quote.FromAmount = amount
	quote.PayUSD = fromPrice * amount
	quote.FeeUSD = quote.PayUSD * entity.SwapFeeRate
	quote.ToAmount = quote.PayUSD / toPrice
	quote.Rate = fromPrice / toPrice
	quote.Available = true

	quote.ToAmountDisplay = strconv.FormatFloat(quote.ToAmount, 'f', 4, 64)
	quote.RateDisplay = strconv.FormatFloat(quote.Rate, 'f', 2, 64)
	quote.FeeDisplay = strconv.FormatFloat(quote.FeeUSD, 'f', 6, 64)

	metrics.SwapQuoteTotal.WithLabelValues("true").Inc()
	return quote
}

// SwapSession holds the mutable state of one swap interaction: the selected
// pair, the typed amount and the pair's latest prices. Prices are re-fetched
// whenever either side of the pair changes; a late response for a superseded
// pair is discarded via a sequence check.
type SwapSession struct {
	marketClient port.MarketDataClient
	catalog      port.CatalogProvider
	auth         port.Authenticator
	logger       port.Logger

	mu         sync.Mutex
	fromAsset  entity.Asset
	toAsset    entity.Asset
	fromAmount string
	fromPrice  float64
	toPrice    float64
	priceErr   string

	// pairSeq is bumped on every pair change; price fetch results tagged
	// with an older sequence are stale and dropped.
	pairSeq uint64
}

// NewSwapSession creates a session. initialFrom may be empty; the defaults
// mirror the wallet UI: Bitcoin (or the first catalog entry) against USDT
// (or the second entry), with a starting amount of 0.01.
func NewSwapSession(
	mc port.MarketDataClient,
	cp port.CatalogProvider,
	auth port.Authenticator,
	l port.Logger,
	initialFromID string,
) (*SwapSession, error) {
	assets := cp.Assets()
	if len(assets) < 2 {
		return nil, fmt.Errorf("swap requires at least two catalog assets, have %d", len(assets))
	}

	from, ok := cp.AssetByID(initialFromID)
	if !ok {
		from = findByName(assets, "Bitcoin", 0)
	}
	to := findByName(assets, "USDT", 1)
	if to.ID == from.ID {
		to = pickOther(assets, from.ID)
	}

	return &SwapSession{
		marketClient: mc,
		catalog:      cp,
		auth:         auth,
		logger:       l,
		fromAsset:    from,
		toAsset:      to,
		fromAmount:   "0.01",
	}, nil
}

func findByName(assets []entity.Asset, name string, fallbackIdx int) entity.Asset {
	for _, a := range assets {
		if a.Name == name {
			return a
		}
	}
	return assets[fallbackIdx]
}

func pickOther(assets []entity.Asset, excludeID string) entity.Asset {
	for _, a := range assets {
		if a.ID != excludeID {
			return a
		}
	}
	return assets[0]
}

// Pair returns the current from/to assets.
func (s *SwapSession) Pair() (entity.Asset, entity.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fromAsset, s.toAsset
}

// SetFromAmount replaces the typed amount. Validation happens at quote time;
// bad text just produces an unavailable quote.
func (s *SwapSession) SetFromAmount(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fromAmount = text
}

// SetMaxAmount sets the typed amount to the held quantity of the pay asset.
func (s *SwapSession) SetMaxAmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fromAmount = s.fromAsset.Amount
}

// SelectFrom changes the pay-side asset. Selecting the asset currently on
// the receive side is rejected; the UI filters it out of the list, and the
// session enforces the same rule.
func (s *SwapSession) SelectFrom(id string) error {
	asset, ok := s.catalog.AssetByID(id)
	if !ok {
		return fmt.Errorf("unknown asset %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.toAsset.ID {
		return fmt.Errorf("asset %q is already selected on the receive side", id)
	}
	if id == s.fromAsset.ID {
		return nil
	}
	s.fromAsset = asset
	s.invalidatePricesLocked()
	return nil
}

// SelectTo changes the receive-side asset, with the mirror-image exclusion.
func (s *SwapSession) SelectTo(id string) error {
	asset, ok := s.catalog.AssetByID(id)
	if !ok {
		return fmt.Errorf("unknown asset %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.fromAsset.ID {
		return fmt.Errorf("asset %q is already selected on the pay side", id)
	}
	if id == s.toAsset.ID {
		return nil
	}
	s.toAsset = asset
	s.invalidatePricesLocked()
	return nil
}

// Reverse swaps the pair and carries the currently computed receive amount
// into the pay amount slot. The new pair's receive amount is derived again
// once RefreshPrices completes for the new pair.
func (s *SwapSession) Reverse() {
	s.mu.Lock()
	defer s.mu.Unlock()

	quote := ComputeSwapQuote(s.fromAsset, s.toAsset, s.fromAmount, s.fromPrice, s.toPrice)

	s.fromAsset, s.toAsset = s.toAsset, s.fromAsset
	if quote.Available {
		s.fromAmount = strconv.FormatFloat(quote.ToAmount, 'f', -1, 64)
	}
	s.invalidatePricesLocked()
}

// invalidatePricesLocked marks the held prices as belonging to a superseded
// pair. Callers hold s.mu.
func (s *SwapSession) invalidatePricesLocked() {
	s.pairSeq++
	s.fromPrice = 0
	s.toPrice = 0
	s.priceErr = ""
}

// SelectableAssets returns the catalog minus the asset occupying the opposite
// side, for populating one side's selection list.
func (s *SwapSession) SelectableAssets(forFromSide bool) []entity.Asset {
	s.mu.Lock()
	exclude := s.fromAsset.ID
	if forFromSide {
		exclude = s.toAsset.ID
	}
	s.mu.Unlock()

	all := s.catalog.Assets()
	out := make([]entity.Asset, 0, len(all))
	for _, a := range all {
		if a.ID != exclude {
			out = append(out, a)
		}
	}
	return out
}

// RefreshPrices fetches current prices for both sides of the pair in one
// batched request. If the pair changed while the request was in flight the
// response is stale and dropped.
func (s *SwapSession) RefreshPrices(ctx context.Context) error {
	s.mu.Lock()
	from, to := s.fromAsset, s.toAsset
	seq := s.pairSeq
	s.mu.Unlock()

	snapshot, err := s.marketClient.GetSimplePrices(ctx, []string{from.LookupKey, to.LookupKey})

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.pairSeq {
		s.logger.Debug("Discarding stale swap price response",
			"pair", from.Symbol+"/"+to.Symbol, "seq", seq)
		return nil
	}
	if err != nil {
		s.priceErr = "failed to fetch prices: " + err.Error()
		return err
	}

	if q, ok := snapshot.Quote(from.LookupKey); ok {
		s.fromPrice = q.PriceUSD
	}
	if q, ok := snapshot.Quote(to.LookupKey); ok {
		s.toPrice = q.PriceUSD
	}
	s.priceErr = ""
	return nil
}

// Quote recomputes the swap projection from the session's current state.
func (s *SwapSession) Quote() entity.SwapQuote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeSwapQuote(s.fromAsset, s.toAsset, s.fromAmount, s.fromPrice, s.toPrice)
}

// Execute runs the device credential check and reports whether the swap was
// confirmed. The session performs no settlement; that is outside the core.
func (s *SwapSession) Execute(ctx context.Context) (bool, error) {
	from, to := s.Pair()
	ok, err := s.auth.Authenticate(ctx, "Authenticate to Swap")
	if err != nil {
		return false, fmt.Errorf("authentication failed: %w", err)
	}
	if !ok {
		s.logger.Warn("Swap not confirmed, authentication declined",
			"from", from.Symbol, "to", to.Symbol)
		return false, nil
	}
	s.logger.Info("Swap confirmed", "from", from.Symbol, "to", to.Symbol)
	return true, nil
}
