package entity

import (
	"fmt"
	"time"
)

// ChartWindow names one of the fixed time ranges offered by the chart view.
type ChartWindow string

const (
	WindowHour     ChartWindow = "H"
	Window24h      ChartWindow = "D"
	WindowWeek     ChartWindow = "W"
	WindowMonth    ChartWindow = "M"
	WindowHalfYear ChartWindow = "6M"
	WindowYear     ChartWindow = "Y"
	WindowAll      ChartWindow = "All"
)

// ChartWindows lists all windows in display order.
var ChartWindows = []ChartWindow{
	WindowHour, Window24h, WindowWeek, WindowMonth,
	WindowHalfYear, WindowYear, WindowAll,
}

// Days returns the market-data "days" request parameter for the window.
// The hour window uses the 1-day series; the upstream API returns finer
// granularity automatically for short ranges.
func (w ChartWindow) Days() (string, error) {
	switch w {
	case WindowHour, Window24h:
		return "1", nil
	case WindowWeek:
		return "7", nil
	case WindowMonth:
		return "30", nil
	case WindowHalfYear:
		return "180", nil
	case WindowYear:
		return "365", nil
	case WindowAll:
		return "max", nil
	default:
		return "", fmt.Errorf("unknown chart window %q", string(w))
	}
}

// ParseChartWindow validates a user-supplied window name.
func ParseChartWindow(s string) (ChartWindow, error) {
	w := ChartWindow(s)
	if _, err := w.Days(); err != nil {
		return "", err
	}
	return w, nil
}

// ChartPoint is one (timestamp, price) sample of a historical series.
type ChartPoint struct {
	Timestamp time.Time `json:"timestamp"`
	PriceUSD  float64   `json:"price"`
}

// ChartSeries is the ordered historical price series for one asset over one
// window, replaced wholesale per fetch.
type ChartSeries struct {
	LookupKey string       `json:"lookupKey"`
	Window    ChartWindow  `json:"window"`
	Points    []ChartPoint `json:"points"`
}

// ChangePct returns the percent change across the series, 0 for an empty
// series or a zero first price.
func (s ChartSeries) ChangePct() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	first := s.Points[0].PriceUSD
	last := s.Points[len(s.Points)-1].PriceUSD
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

// ChartState is the externally visible state of the chart fetcher.
type ChartState struct {
	Series    ChartSeries `json:"series"`
	ChangePct float64     `json:"changePct"`
	Loading   bool        `json:"loading"`
	Error     string      `json:"error,omitempty"`
}
