package models

import "time"

// EventType classifies a calendar event.
type EventType string

const (
	EventRateDecision     EventType = "rate-decision"
	EventPriceIndex       EventType = "price-index"
	EventLaborReport      EventType = "labor-report"
	EventOptionsExpiry    EventType = "options-expiry"
	EventEarningsSeason   EventType = "earnings-season"
	EventElection         EventType = "election"
	EventIndexRebalancing EventType = "index-rebalancing"
	EventDividendExDate   EventType = "dividend-ex-date"
	EventCustom           EventType = "custom"
	EventRetailSales      EventType = "retail-sales"
	EventManufacturingPMI EventType = "manufacturing-pmi"
	EventJoblessClaims    EventType = "jobless-claims"
	EventTripleWitching   EventType = "triple-witching"
)

// AllEventTypes lists every known event type in a stable order.
var AllEventTypes = []EventType{
	EventRateDecision, EventPriceIndex, EventLaborReport, EventOptionsExpiry,
	EventEarningsSeason, EventElection, EventIndexRebalancing, EventDividendExDate,
	EventCustom, EventRetailSales, EventManufacturingPMI, EventJoblessClaims,
	EventTripleWitching,
}

// Valid checks if event type is known.
func (e EventType) Valid() bool {
	for _, t := range AllEventTypes {
		if t == e {
			return true
		}
	}
	return false
}

func (e EventType) String() string { return string(e) }

// ShortName is the label prefix used for derived week events, e.g. "FOMC Week".
func (e EventType) ShortName() string {
	switch e {
	case EventRateDecision:
		return "FOMC"
	case EventPriceIndex:
		return "CPI"
	case EventLaborReport:
		return "NFP"
	case EventOptionsExpiry:
		return "OpEx"
	case EventEarningsSeason:
		return "Earnings Season"
	case EventElection:
		return "Election"
	case EventIndexRebalancing:
		return "Index Rebalance"
	case EventDividendExDate:
		return "Ex-Dividend"
	case EventRetailSales:
		return "Retail Sales"
	case EventManufacturingPMI:
		return "ISM"
	case EventJoblessClaims:
		return "Jobless Claims"
	case EventTripleWitching:
		return "Triple Witching"
	default:
		return "Custom"
	}
}

// ImpactLevel grades how strongly an event tends to move prices.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Valid checks if impact level is valid.
func (i ImpactLevel) Valid() bool {
	switch i {
	case ImpactLow, ImpactMedium, ImpactHigh:
		return true
	}
	return false
}

func (i ImpactLevel) String() string { return string(i) }

// CalendarEvent is an immutable dated market event.
type CalendarEvent struct {
	Date        time.Time   `json:"date"`
	Name        string      `json:"name"`
	Type        EventType   `json:"type"`
	Impact      ImpactLevel `json:"impact"`
	Description string      `json:"description,omitempty"`
	Ticker      string      `json:"ticker,omitempty"`
}

// CustomEventConfig is the user-supplied form of a calendar event.
type CustomEventConfig struct {
	Date        string `yaml:"date" json:"date"`
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Impact      string `yaml:"impact" json:"impact"`
	Description string `yaml:"description" json:"description"`
	Ticker      string `yaml:"ticker" json:"ticker,omitempty"`
}
