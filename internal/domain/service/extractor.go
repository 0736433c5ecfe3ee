package service

import (
	"time"

	"FinSeason/internal/domain/models"
)

// Granularity declares the finest bar resolution an extractor understands.
type Granularity string

const (
	GranularityDaily    Granularity = "daily"
	GranularityIntraday Granularity = "intraday"
)

// Supports reports whether an extractor of granularity g can label bars of tf.
func (g Granularity) Supports(tf models.Timeframe) bool {
	if g == GranularityIntraday {
		return tf == models.TFHourly
	}
	return true
}

// PeriodExtractor maps a timestamp to a period label. Implementations are pure.
type PeriodExtractor interface {
	Name() string
	Extract(t time.Time) (string, bool)
	Granularity() Granularity
}

// EventWindowAnalyzer is implemented by extractors of scheduled releases.
type EventWindowAnalyzer interface {
	AnalyzeEventWindow(date time.Time, bars []models.PriceBar) models.EventWindowAnalysis
}

// CalendarReader is the read-only calendar view extractors are built against.
type CalendarReader interface {
	HasEventOn(date time.Time, typ models.EventType) bool
	IsEventWeek(date time.Time, typ models.EventType) bool
	EventTypesInWeek(date time.Time) []models.EventType
	NearestEvent(typ models.EventType, date time.Time) (models.CalendarEvent, bool)
}
