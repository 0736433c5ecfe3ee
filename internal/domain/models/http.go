package models

// Requests for HTTP endpoints. Defined in domain for consistency and reuse.

// SeasonalRequest accepts a single symbol or a comma-separated list.
type SeasonalRequest struct {
	Symbol  string `query:"symbol" json:"symbol" validate:"required,max=256"`
	Years   int    `query:"years" json:"years" default:"5" validate:"gte=1,lte=30"`
	TF      string `query:"tf" json:"tf" default:"daily" validate:"oneof=daily hourly"`
	Periods string `query:"periods" json:"periods"`
	Events  bool   `query:"events" json:"events"`
	Refresh bool   `query:"refresh" json:"refresh"`
}

type CalendarEventsRequest struct {
	Date string `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
}

type CalendarRangeRequest struct {
	Type string `query:"type" json:"type" validate:"required"`
	From string `query:"from" json:"from" validate:"required,datetime=2006-01-02"`
	To   string `query:"to" json:"to" validate:"required,datetime=2006-01-02"`
}

type EventWindowRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=32"`
	Date   string `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Event  string `query:"event" json:"event" default:"price-index" validate:"oneof=price-index labor-report retail-sales manufacturing-pmi rate-decision options-expiry triple-witching"`
}
