package extractors

import (
	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
)

// Default returns the registered extractors in a fixed order.
func Default(cal domsvc.CalendarReader) []domsvc.PeriodExtractor {
	return []domsvc.PeriodExtractor{
		NewPriceIndex(cal),
		NewLaborReport(cal),
		NewRetailSales(cal),
		NewManufacturingPMI(cal),
		NewJoblessClaims(cal),
		NewRateDecision(cal),
		NewOptionsExpiry(cal),
		NewTripleWitching(cal),
		NewRebalance(cal),
		NewElection(cal),
		NewEarningsSeason(cal),
		NewExDividend(cal),
		NewReleaseHour(cal, models.EventPriceIndex, "CPI"),
		NewReleaseHour(cal, models.EventLaborReport, "NFP"),
	}
}

// WindowAnalyzer returns the event-window analyzer for a scheduled release type.
func WindowAnalyzer(cal domsvc.CalendarReader, typ models.EventType) (domsvc.EventWindowAnalyzer, bool) {
	switch typ {
	case models.EventPriceIndex:
		return NewPriceIndex(cal), true
	case models.EventLaborReport:
		return NewLaborReport(cal), true
	case models.EventRetailSales:
		return NewRetailSales(cal), true
	case models.EventManufacturingPMI:
		return NewManufacturingPMI(cal), true
	case models.EventRateDecision:
		return NewRateDecision(cal), true
	case models.EventOptionsExpiry:
		return NewOptionsExpiry(cal), true
	case models.EventTripleWitching:
		return NewTripleWitching(cal), true
	}
	return nil, false
}
