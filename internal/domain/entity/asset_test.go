package entity

import "testing"

func TestAsset_Quantity(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		want    float64
		wantErr bool
	}{
		{"Whole", "3", 3, false},
		{"Fractional", "0.2876", 0.2876, false},
		{"Zero", "0", 0, false},
		{"Negative", "-1", 0, true},
		{"Garbage", "abc", 0, true},
		{"Empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Asset{ID: "x", LookupKey: "x", Amount: tt.amount}
			got, err := a.Quantity()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Quantity() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Quantity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsset_Validate(t *testing.T) {
	valid := Asset{ID: "1", LookupKey: "bitcoin", Amount: "1"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() on valid asset returned error: %v", err)
	}

	if err := (Asset{LookupKey: "bitcoin", Amount: "1"}).Validate(); err == nil {
		t.Error("Validate() should reject empty id")
	}
	if err := (Asset{ID: "1", Amount: "1"}).Validate(); err == nil {
		t.Error("Validate() should reject empty lookup key")
	}
}

func TestPriceSnapshot_Clone(t *testing.T) {
	orig := PriceSnapshot{"bitcoin": {PriceUSD: 50000}}
	clone := orig.Clone()
	clone["bitcoin"] = PriceQuote{PriceUSD: 1}
	if orig["bitcoin"].PriceUSD != 50000 {
		t.Error("Clone() must not share storage with the original")
	}

	var nilSnap PriceSnapshot
	if nilSnap.Clone() != nil {
		t.Error("Clone() of nil snapshot should be nil")
	}
}
