package extractors

import (
	"time"

	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
)

// JoblessClaims flags weekly claims release days. The calendar never schedules
// a release on New Year's Day, July 4, Thanksgiving or Christmas.
type JoblessClaims struct {
	cal domsvc.CalendarReader
}

func NewJoblessClaims(cal domsvc.CalendarReader) *JoblessClaims { return &JoblessClaims{cal: cal} }

func (e *JoblessClaims) Name() string                    { return "jobless-claims" }
func (e *JoblessClaims) Granularity() domsvc.Granularity { return domsvc.GranularityDaily }

func (e *JoblessClaims) Extract(t time.Time) (string, bool) {
	if e.cal.HasEventOn(t, models.EventJoblessClaims) {
		return "Jobless-Claims-Day", true
	}
	return "", false
}

// EarningsSeason labels every day of a peak reporting week.
type EarningsSeason struct {
	cal domsvc.CalendarReader
}

func NewEarningsSeason(cal domsvc.CalendarReader) *EarningsSeason { return &EarningsSeason{cal: cal} }

func (e *EarningsSeason) Name() string                    { return "earnings-season" }
func (e *EarningsSeason) Granularity() domsvc.Granularity { return domsvc.GranularityDaily }

func (e *EarningsSeason) Extract(t time.Time) (string, bool) {
	if e.cal.IsEventWeek(t, models.EventEarningsSeason) {
		return "Earnings-Season", true
	}
	return "", false
}

var (
	_ domsvc.PeriodExtractor = (*JoblessClaims)(nil)
	_ domsvc.PeriodExtractor = (*EarningsSeason)(nil)
)
