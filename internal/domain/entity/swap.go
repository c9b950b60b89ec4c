package entity

// SwapFeeRate is the fee charged on the USD value of the pay side (0.01%).
const SwapFeeRate = 0.0001

// SwapQuote is the derived result of pricing one swap input. When Available
// is false every numeric field is zero and the display strings carry the
// "-" placeholder; callers must not render the numbers in that case.
type SwapQuote struct {
	FromAssetID string  `json:"fromAssetId"`
	ToAssetID   string  `json:"toAssetId"`
	FromAmount  float64 `json:"fromAmount"`
	PayUSD      float64 `json:"payUsd"`
	ToAmount    float64 `json:"toAmount"`
	Rate        float64 `json:"rate"`
	FeeUSD      float64 `json:"fee"`

	// FeeSymbol labels the fee with the destination asset's symbol. The fee
	// magnitude itself stays in USD; the label is a display contract carried
	// over from the product, not a unit conversion.
	FeeSymbol string `json:"feeSymbol"`

	Available bool `json:"available"`

	ToAmountDisplay string `json:"toAmountDisplay"`
	RateDisplay     string `json:"rateDisplay"`
	FeeDisplay      string `json:"feeDisplay"`
}
