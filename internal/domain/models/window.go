package models

import "time"

// EventWindowAnalysis compares realized volatility around a release with a trailing baseline.
type EventWindowAnalysis struct {
	EventType           EventType   `json:"event_type"`
	ReleaseDate         time.Time   `json:"release_date"`
	IsEventWeek         bool        `json:"is_event_week"`
	DaysUntilRelease    int         `json:"days_until_release"`
	ExpectedImpact      ImpactLevel `json:"expected_impact"`
	EventVolatility     float64     `json:"event_volatility,omitempty"`
	BaselineVolatility  float64     `json:"baseline_volatility,omitempty"`
	VolatilityChangePct float64     `json:"volatility_change_pct,omitempty"`
	HasVolatility       bool        `json:"has_volatility"`
	Insights            []string    `json:"insights"`
}
