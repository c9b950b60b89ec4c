package entity

import (
	"fmt"
	"strconv"
)

// Asset describes a single tracked asset from the wallet catalog.
// The catalog is immutable after process start; Amount is kept as the
// decimal string it was configured with and parsed on demand.
type Asset struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	LookupKey string `json:"lookupKey"` // external market-data identifier (e.g. "bitcoin")
	Chain     string `json:"chain"`
	Amount    string `json:"amount"`

	// Display metadata, passed through to the presentation layer untouched.
	Icon        string `json:"icon,omitempty"`
	IconBg      string `json:"iconBg,omitempty"`
	ChainBg     string `json:"chainBg,omitempty"`
	ChainText   string `json:"chainText,omitempty"`
	ChangeColor string `json:"changeColor,omitempty"`
}

// Quantity parses the configured held amount. The catalog loader validates
// amounts at startup, so a parse failure here indicates a corrupted catalog.
func (a Asset) Quantity() (float64, error) {
	qty, err := strconv.ParseFloat(a.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("asset %s has unparsable amount %q: %w", a.ID, a.Amount, err)
	}
	if qty < 0 {
		return 0, fmt.Errorf("asset %s has negative amount %q", a.ID, a.Amount)
	}
	return qty, nil
}

// Validate checks the invariants the catalog loader enforces for one asset.
func (a Asset) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("asset has empty id")
	}
	if a.LookupKey == "" {
		return fmt.Errorf("asset %s has empty lookup key", a.ID)
	}
	if _, err := a.Quantity(); err != nil {
		return err
	}
	return nil
}
