package extractors

import (
	"time"

	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
)

// DayWeek labels the release day "<Prefix>-Day" and the rest of its Monday-Sunday
// week "<Prefix>-Week". The week index also covers a first-of-month release whose
// week starts in the previous month.
type DayWeek struct {
	windowBase
	name string
}

func newDayWeek(cal domsvc.CalendarReader, name, prefix string, typ models.EventType, impact models.ImpactLevel) *DayWeek {
	return &DayWeek{windowBase: windowBase{cal: cal, typ: typ, prefix: prefix, impact: impact}, name: name}
}

func NewLaborReport(cal domsvc.CalendarReader) *DayWeek {
	return newDayWeek(cal, "labor-report", "NFP", models.EventLaborReport, models.ImpactHigh)
}

func NewRetailSales(cal domsvc.CalendarReader) *DayWeek {
	return newDayWeek(cal, "retail-sales", "Retail-Sales", models.EventRetailSales, models.ImpactMedium)
}

// NewManufacturingPMI always reports medium impact.
func NewManufacturingPMI(cal domsvc.CalendarReader) *DayWeek {
	return newDayWeek(cal, "manufacturing-pmi", "ISM", models.EventManufacturingPMI, models.ImpactMedium)
}

func NewRateDecision(cal domsvc.CalendarReader) *DayWeek {
	return newDayWeek(cal, "rate-decision", "FOMC", models.EventRateDecision, models.ImpactHigh)
}

func NewOptionsExpiry(cal domsvc.CalendarReader) *DayWeek {
	return newDayWeek(cal, "options-expiry", "OpEx", models.EventOptionsExpiry, models.ImpactMedium)
}

func NewTripleWitching(cal domsvc.CalendarReader) *DayWeek {
	return newDayWeek(cal, "triple-witching", "Triple-Witching", models.EventTripleWitching, models.ImpactHigh)
}

// NewRebalance takes its impact from the event (reconstitution is high, quarterly medium).
func NewRebalance(cal domsvc.CalendarReader) *DayWeek {
	return newDayWeek(cal, "index-rebalancing", "Rebalance", models.EventIndexRebalancing, "")
}

func NewElection(cal domsvc.CalendarReader) *DayWeek {
	return newDayWeek(cal, "election", "Election", models.EventElection, models.ImpactHigh)
}

func NewExDividend(cal domsvc.CalendarReader) *DayWeek {
	return newDayWeek(cal, "dividend-ex-date", "Ex-Dividend", models.EventDividendExDate, models.ImpactLow)
}

func (e *DayWeek) Name() string                    { return e.name }
func (e *DayWeek) Granularity() domsvc.Granularity { return domsvc.GranularityDaily }

// EventType is the calendar type the extractor follows.
func (e *DayWeek) EventType() models.EventType { return e.typ }

func (e *DayWeek) Extract(t time.Time) (string, bool) {
	if e.cal.HasEventOn(t, e.typ) {
		return e.prefix + "-Day", true
	}
	if e.cal.IsEventWeek(t, e.typ) {
		return e.prefix + "-Week", true
	}
	return "", false
}

var (
	_ domsvc.PeriodExtractor     = (*DayWeek)(nil)
	_ domsvc.EventWindowAnalyzer = (*DayWeek)(nil)
)
