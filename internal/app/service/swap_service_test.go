package service

import (
	"context"
	"fmt"
	"testing"

	"wallet_core/internal/domain/entity"
)

var (
	btc  = entity.Asset{ID: "1", Name: "Bitcoin", Symbol: "BTC", LookupKey: "bitcoin", Amount: "0.2876"}
	usdt = entity.Asset{ID: "3", Name: "USDT", Symbol: "USDT", LookupKey: "tether", Amount: "1250"}
)

func TestComputeSwapQuote(t *testing.T) {
	t.Run("Standard Quote", func(t *testing.T) {
		quote := ComputeSwapQuote(btc, usdt, "0.01", 50000, 1)

		if !quote.Available {
			t.Fatal("quote should be available")
		}
		if quote.PayUSD != 500 {
			t.Errorf("PayUSD = %v, want 500", quote.PayUSD)
		}
		if !almostEqual(quote.FeeUSD, 0.05, 1e-12) {
			t.Errorf("FeeUSD = %v, want 0.05", quote.FeeUSD)
		}
		if quote.ToAmount != 500 {
			t.Errorf("ToAmount = %v, want 500", quote.ToAmount)
		}
		if quote.Rate != 50000 {
			t.Errorf("Rate = %v, want 50000", quote.Rate)
		}
		if quote.ToAmountDisplay != "500.0000" {
			t.Errorf("ToAmountDisplay = %q, want %q", quote.ToAmountDisplay, "500.0000")
		}
	})

	t.Run("Fee Labeled With Destination Symbol", func(t *testing.T) {
		// The fee magnitude stays in USD; only the label comes from the
		// destination asset. No unit conversion happens.
		quote := ComputeSwapQuote(btc, usdt, "0.01", 50000, 1)
		if quote.FeeSymbol != "USDT" {
			t.Errorf("FeeSymbol = %q, want USDT", quote.FeeSymbol)
		}
		if quote.FeeDisplay != "0.050000" {
			t.Errorf("FeeDisplay = %q, want 0.050000", quote.FeeDisplay)
		}
	})

	unavailableCases := []struct {
		name      string
		amount    string
		fromPrice float64
		toPrice   float64
	}{
		{"Unparsable Amount", "abc", 50000, 1},
		{"Empty Amount", "", 50000, 1},
		{"Negative Amount", "-3", 50000, 1},
		{"Zero Amount", "0", 50000, 1},
		{"Zero From Price", "0.01", 0, 1},
		{"Zero To Price", "0.01", 50000, 0},
	}
	for _, tt := range unavailableCases {
		t.Run(tt.name, func(t *testing.T) {
			quote := ComputeSwapQuote(btc, usdt, tt.amount, tt.fromPrice, tt.toPrice)
			if quote.Available {
				t.Fatal("quote should be unavailable")
			}
			if quote.ToAmount != 0 || quote.PayUSD != 0 || quote.FeeUSD != 0 || quote.Rate != 0 {
				t.Error("unavailable quote must carry zero numerics")
			}
			if quote.ToAmountDisplay != "-" || quote.RateDisplay != "-" || quote.FeeDisplay != "-" {
				t.Error("unavailable quote must carry placeholder displays")
			}
		})
	}
}

func newTestSession(t *testing.T, fake *fakeMarketClient) *SwapSession {
	t.Helper()
	session, err := NewSwapSession(fake, testCatalog(), &fakeAuthenticator{approve: true}, nopLogger{}, "")
	if err != nil {
		t.Fatalf("NewSwapSession returned error: %v", err)
	}
	return session
}

func TestSwapSession_Defaults(t *testing.T) {
	session := newTestSession(t, &fakeMarketClient{})
	from, to := session.Pair()
	if from.Name != "Bitcoin" {
		t.Errorf("default from = %s, want Bitcoin", from.Name)
	}
	if to.Name != "USDT" {
		t.Errorf("default to = %s, want USDT", to.Name)
	}
}

func TestSwapSession_SelectionExclusion(t *testing.T) {
	session := newTestSession(t, &fakeMarketClient{})

	if err := session.SelectFrom("3"); err == nil {
		t.Error("selecting the receive-side asset as pay side must be rejected")
	}
	if err := session.SelectTo("1"); err == nil {
		t.Error("selecting the pay-side asset as receive side must be rejected")
	}

	fromChoices := session.SelectableAssets(true)
	for _, a := range fromChoices {
		if a.ID == "3" {
			t.Error("pay-side choices must exclude the receive-side asset")
		}
	}
	toChoices := session.SelectableAssets(false)
	for _, a := range toChoices {
		if a.ID == "1" {
			t.Error("receive-side choices must exclude the pay-side asset")
		}
	}
}

func TestSwapSession_Reverse(t *testing.T) {
	fake := &fakeMarketClient{
		pricesFunc: func(ctx context.Context, keys []string) (entity.PriceSnapshot, error) {
			return entity.PriceSnapshot{
				"bitcoin": {PriceUSD: 50000},
				"tether":  {PriceUSD: 1},
			}, nil
		},
	}
	session := newTestSession(t, fake)
	session.SetFromAmount("0.01")
	if err := session.RefreshPrices(context.Background()); err != nil {
		t.Fatalf("RefreshPrices returned error: %v", err)
	}

	before := session.Quote()
	if !before.Available || before.ToAmount != 500 {
		t.Fatalf("precondition failed: quote %+v", before)
	}

	session.Reverse()

	from, to := session.Pair()
	if from.Symbol != "USDT" || to.Symbol != "BTC" {
		t.Errorf("pair after reverse = %s/%s, want USDT/BTC", from.Symbol, to.Symbol)
	}

	// The computed receive amount moves into the pay slot...
	if quote := session.Quote(); quote.Available {
		t.Error("quote must be unavailable until the new pair's prices arrive")
	}

	// ...and becomes the pay amount once the new pair's prices load.
	if err := session.RefreshPrices(context.Background()); err != nil {
		t.Fatalf("RefreshPrices returned error: %v", err)
	}
	quote := session.Quote()
	if !quote.Available {
		t.Fatal("quote should be available after refresh")
	}
	if quote.FromAmount != 500 {
		t.Errorf("FromAmount after reverse = %v, want 500 (carried over ToAmount)", quote.FromAmount)
	}
	if !almostEqual(quote.ToAmount, 0.01, 1e-9) {
		t.Errorf("ToAmount after reverse = %v, want 0.01", quote.ToAmount)
	}
}

func TestSwapSession_StalePairPricesDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fake := &fakeMarketClient{
		pricesFunc: func(ctx context.Context, keys []string) (entity.PriceSnapshot, error) {
			close(started)
			<-release
			return entity.PriceSnapshot{
				"bitcoin": {PriceUSD: 50000},
				"tether":  {PriceUSD: 1},
			}, nil
		},
	}
	session := newTestSession(t, fake)
	session.SetFromAmount("0.01")

	done := make(chan error, 1)
	go func() {
		done <- session.RefreshPrices(context.Background())
	}()
	<-started

	// Pair changes while the fetch is in flight: the response is stale.
	if err := session.SelectTo("2"); err != nil {
		t.Fatalf("SelectTo returned error: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("RefreshPrices returned error: %v", err)
	}

	if quote := session.Quote(); quote.Available {
		t.Error("stale price response for the superseded pair must not produce a quote")
	}
}

func TestSwapSession_Execute(t *testing.T) {
	tests := []struct {
		name      string
		approve   bool
		authErr   error
		confirmed bool
		wantErr   bool
	}{
		{"Approved", true, nil, true, false},
		{"Declined", false, nil, false, false},
		{"Error", false, fmt.Errorf("sensor unavailable"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewSwapSession(&fakeMarketClient{}, testCatalog(),
				&fakeAuthenticator{approve: tt.approve, err: tt.authErr}, nopLogger{}, "")
			if err != nil {
				t.Fatalf("NewSwapSession returned error: %v", err)
			}
			confirmed, err := session.Execute(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute error = %v, wantErr %v", err, tt.wantErr)
			}
			if confirmed != tt.confirmed {
				t.Errorf("Execute confirmed = %v, want %v", confirmed, tt.confirmed)
			}
		})
	}
}
