package utils

import (
	"strconv"
	"strings"
)

// ParseAmount parses user-typed amount text. Empty or unparsable text yields
// (0, false): the caller renders a placeholder instead of a computed number.
func ParseAmount(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// FormatUSD renders a USD magnitude with two decimal places for display.
func FormatUSD(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
