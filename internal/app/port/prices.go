package port

import (
	"context"

	"wallet_core/internal/domain/entity"
)

// PriceService defines the interface for the price sync engine owning the
// process-wide snapshot of latest prices.
type PriceService interface {
	// Start begins the recurring refresh cycle: one immediate fetch, then a
	// fetch every poll interval until Stop is called.
	Start(ctx context.Context)

	// Stop cancels the recurring cycle. Safe to call when never started and
	// safe to call more than once.
	Stop()

	// RefreshNow triggers an out-of-band fetch, e.g. a user-initiated retry.
	RefreshNow(ctx context.Context) error

	// State returns a copy of the current snapshot plus loading/error state.
	State() entity.PriceState
}
