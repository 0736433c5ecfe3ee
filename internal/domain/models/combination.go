package models

import "time"

// CombinationType names a co-occurrence of events within one week.
type CombinationType string

// ExpectedImpact is the volatility tier of a combination.
type ExpectedImpact string

const (
	ExpectedExtreme  ExpectedImpact = "extreme"
	ExpectedVeryHigh ExpectedImpact = "very-high"
	ExpectedHigh     ExpectedImpact = "high"
)

// CombinationSpec is one entry of the fixed combination catalog.
type CombinationSpec struct {
	Type                 CombinationType `json:"type"`
	RequiredTypes        []EventType     `json:"required_types"`
	VolatilityMultiplier float64         `json:"volatility_multiplier"`
	ExpectedImpact       ExpectedImpact  `json:"expected_impact"`
	Description          string          `json:"description"`
}

// EventCombination is a detected combined-event week.
type EventCombination struct {
	Type                 CombinationType `json:"type"`
	WeekStart            time.Time       `json:"week_start"`
	WeekEnd              time.Time       `json:"week_end"`
	TriggeringEventTypes []EventType     `json:"triggering_event_types"`
	VolatilityMultiplier float64         `json:"volatility_multiplier"`
	ExpectedImpact       ExpectedImpact  `json:"expected_impact"`
}
