package models

import (
	"strings"
	"time"
)

// Timeframe is the bar resolution of a price series.
type Timeframe string

const (
	TFDaily  Timeframe = "daily"
	TFHourly Timeframe = "hourly"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TFDaily, TFHourly:
		return true
	default:
		return false
	}
}

// ParseTimeframe accepts canonical names and the short aliases 1d/d/day and 1h/h/hour.
func ParseTimeframe(s string) (Timeframe, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TFDaily), "1d", "d", "day":
		return TFDaily, true
	case string(TFHourly), "1h", "h", "hour":
		return TFHourly, true
	}
	return "", false
}

// NormalizeTimeframe converts raw string to a valid timeframe (or daily).
func NormalizeTimeframe(s string) Timeframe {
	if tf, ok := ParseTimeframe(s); ok {
		return tf
	}
	return TFDaily
}

// PriceBar is an OHLCV record supplied by a price-history provider.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}
