package utils

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{"Whole", "3", 3, true},
		{"Fractional", "0.01", 0.01, true},
		{"Zero", "0", 0, true},
		{"Whitespace Padded", "  1.5 ", 1.5, true},
		{"Empty", "", 0, false},
		{"Whitespace Only", "   ", 0, false},
		{"Garbage", "abc", 0, false},
		{"Negative", "-1", 0, false},
		{"Trailing Text", "1.5x", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{500, "500.00"},
		{1234.567, "1234.57"},
		{0.05, "0.05"},
	}
	for _, tt := range tests {
		if got := FormatUSD(tt.in); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
