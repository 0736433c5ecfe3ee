package extractors

import (
	"fmt"
	"time"

	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
	"FinSeason/pkg/util"
)

const priceIndexWindow = 5

// PriceIndex labels bars by their distance to the nearest CPI release.
type PriceIndex struct {
	windowBase
}

func NewPriceIndex(cal domsvc.CalendarReader) *PriceIndex {
	return &PriceIndex{windowBase{cal: cal, typ: models.EventPriceIndex, prefix: "CPI", impact: models.ImpactHigh}}
}

func (e *PriceIndex) Name() string                    { return "price-index" }
func (e *PriceIndex) Granularity() domsvc.Granularity { return domsvc.GranularityDaily }

// Extract returns "CPI-Release-Day" on the release date and "CPI-T-N"/"CPI-T+N"
// for N calendar days before/after it, N in 1..5.
func (e *PriceIndex) Extract(t time.Time) (string, bool) {
	day := util.DateOf(t)
	release, ok := e.cal.NearestEvent(models.EventPriceIndex, day)
	if !ok {
		return "", false
	}
	n := util.DaysBetween(release.Date, day)
	switch {
	case n == 0:
		return "CPI-Release-Day", true
	case n < 0 && n >= -priceIndexWindow:
		return fmt.Sprintf("CPI-T-%d", -n), true
	case n > 0 && n <= priceIndexWindow:
		return fmt.Sprintf("CPI-T+%d", n), true
	}
	return "", false
}

var (
	_ domsvc.PeriodExtractor     = (*PriceIndex)(nil)
	_ domsvc.EventWindowAnalyzer = (*PriceIndex)(nil)
)
