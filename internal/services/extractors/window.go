package extractors

import (
	"fmt"
	"time"

	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
	"FinSeason/internal/services/features"
	"FinSeason/pkg/util"
)

// Event and baseline windows, in calendar days relative to the release.
const (
	eventWindowBefore = 5
	eventWindowAfter  = 5
	baselineFrom      = 30
	baselineTo        = 14

	elevatedThreshold   = 50.0
	extremeThreshold    = 150.0
	compressedThreshold = -25.0
)

// windowBase provides AnalyzeEventWindow for extractors of one scheduled release type.
type windowBase struct {
	cal    domsvc.CalendarReader
	typ    models.EventType
	prefix string
	impact models.ImpactLevel
}

// AnalyzeEventWindow measures annualized realized volatility over the
// T-5..T+5 window of the release nearest to date and compares it with T-30..T-14.
func (w windowBase) AnalyzeEventWindow(date time.Time, bars []models.PriceBar) models.EventWindowAnalysis {
	day := util.DateOf(date)
	out := models.EventWindowAnalysis{
		EventType:      w.typ,
		IsEventWeek:    w.cal.IsEventWeek(day, w.typ),
		ExpectedImpact: w.impact,
	}
	release, ok := w.cal.NearestEvent(w.typ, day)
	if !ok {
		out.Insights = []string{fmt.Sprintf("No %s release on the calendar", w.prefix)}
		return out
	}
	if w.impact == "" {
		out.ExpectedImpact = release.Impact
	}
	out.ReleaseDate = release.Date
	out.DaysUntilRelease = util.DaysBetween(day, release.Date)

	eventVol, okEvent := windowVolatility(bars, util.AddDays(release.Date, -eventWindowBefore), util.AddDays(release.Date, eventWindowAfter))
	baseVol, okBase := windowVolatility(bars, util.AddDays(release.Date, -baselineFrom), util.AddDays(release.Date, -baselineTo))
	if okEvent && okBase && baseVol > 0 {
		change := (eventVol/baseVol - 1) * 100
		if features.IsFinite(change) {
			out.EventVolatility = eventVol
			out.BaselineVolatility = baseVol
			out.VolatilityChangePct = change
			out.HasVolatility = true
		}
	}
	out.Insights = w.insights(out)
	return out
}

func (w windowBase) insights(a models.EventWindowAnalysis) []string {
	var out []string
	release := util.FormatISODate(a.ReleaseDate)
	switch {
	case a.DaysUntilRelease > 0:
		out = append(out, fmt.Sprintf("%s release in %d days (%s)", w.prefix, a.DaysUntilRelease, release))
	case a.DaysUntilRelease == 0:
		out = append(out, fmt.Sprintf("%s release today (%s)", w.prefix, release))
	default:
		out = append(out, fmt.Sprintf("%s released %d days ago (%s)", w.prefix, -a.DaysUntilRelease, release))
	}
	if a.IsEventWeek {
		out = append(out, fmt.Sprintf("%s week: expect %s impact", w.prefix, a.ExpectedImpact))
	}
	if !a.HasVolatility {
		return append(out, "Not enough price history around the release to measure volatility")
	}
	switch {
	case a.VolatilityChangePct > extremeThreshold:
		out = append(out, fmt.Sprintf("Volatility extreme around %s: %+.0f%% vs baseline", w.prefix, a.VolatilityChangePct))
	case a.VolatilityChangePct > elevatedThreshold:
		out = append(out, fmt.Sprintf("Volatility elevated around %s: %+.0f%% vs baseline", w.prefix, a.VolatilityChangePct))
	case a.VolatilityChangePct < compressedThreshold:
		out = append(out, fmt.Sprintf("Volatility compressed around %s: %+.0f%% vs baseline", w.prefix, a.VolatilityChangePct))
	}
	return out
}

// windowVolatility is the annualized stdev of log returns of bars dated in [from, to].
func windowVolatility(bars []models.PriceBar, from, to time.Time) (float64, bool) {
	var in []models.PriceBar
	for _, b := range bars {
		d := util.DateOf(b.Timestamp)
		if d.Before(from) || d.After(to) {
			continue
		}
		in = append(in, b)
	}
	rets := features.ComputeLogReturns(in)
	if len(rets) < 2 {
		return 0, false
	}
	vol := features.RealizedVolatility(rets, len(rets), features.BarsPerYearForTF(barTimeframe(in)))
	return vol, features.IsFinite(vol)
}

// barTimeframe infers the bar size from the spacing of the first two bars.
func barTimeframe(bars []models.PriceBar) models.Timeframe {
	if len(bars) > 1 && bars[1].Timestamp.Sub(bars[0].Timestamp) < 24*time.Hour {
		return models.TFHourly
	}
	return models.TFDaily
}
