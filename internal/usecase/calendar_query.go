package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinSeason/internal/domain/models"
	domrepo "FinSeason/internal/domain/repository"
	"FinSeason/internal/services/calendar"
	"FinSeason/internal/services/combined"
	"FinSeason/internal/services/extractors"
	"FinSeason/pkg/util"
)

const (
	windowLookback  = 60
	windowLookahead = 10
	maxRangeDays    = 3 * 366
)

// CalendarUseCase answers calendar, combination and event-window queries
// against the shared calendar.
type CalendarUseCase struct {
	cal      *calendar.Calendar
	detector *combined.Detector
	prices   domrepo.PriceHistoryProvider
}

func NewCalendarUseCase(cal *calendar.Calendar, prices domrepo.PriceHistoryProvider) *CalendarUseCase {
	return &CalendarUseCase{cal: cal, detector: combined.NewDetector(cal), prices: prices}
}

// Calendar exposes the underlying calendar (used by the staleness job).
func (uc *CalendarUseCase) Calendar() *calendar.Calendar { return uc.cal }

func (uc *CalendarUseCase) EventsForDate(date time.Time) []models.CalendarEvent {
	return uc.cal.EventsForDate(date)
}

// EventsByType lists events of typ within [from, to].
func (uc *CalendarUseCase) EventsByType(typ models.EventType, from, to time.Time) ([]models.CalendarEvent, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidRequest, typ)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidRequest)
	}
	if util.DaysBetween(from, to) > maxRangeDays {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidRequest, maxRangeDays)
	}
	return uc.cal.EventsByType(typ, from, to), nil
}

// Combination detects the combined-event week containing date.
func (uc *CalendarUseCase) Combination(date time.Time) (models.EventCombination, bool) {
	return uc.detector.Detect(date)
}

func (uc *CalendarUseCase) Combinations() []models.CombinationSpec {
	return combined.AllCombinations()
}

// EventWindow compares volatility around the release of typ nearest to date
// with its pre-release baseline, using daily bars of symbol.
func (uc *CalendarUseCase) EventWindow(ctx context.Context, symbol string, date time.Time, typ models.EventType) (models.EventWindowAnalysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.EventWindowAnalysis{}, fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	analyzer, ok := extractors.WindowAnalyzer(uc.cal, typ)
	if !ok {
		return models.EventWindowAnalysis{}, fmt.Errorf("%w: no window analysis for %q", ErrInvalidRequest, typ)
	}

	anchor := util.DateOf(date)
	if ev, ok := uc.cal.NearestEvent(typ, anchor); ok {
		anchor = ev.Date
	}
	from := util.AddDays(anchor, -windowLookback)
	to := util.AddDays(anchor, windowLookahead)
	bars, err := uc.prices.GetBars(ctx, symbol, from, to, models.TFDaily)
	if err != nil {
		return models.EventWindowAnalysis{}, fmt.Errorf("%w: fetch bars %s: %w", ErrProviderFailed, symbol, err)
	}
	return analyzer.AnalyzeEventWindow(date, bars), nil
}
