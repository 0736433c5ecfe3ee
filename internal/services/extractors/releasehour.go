package extractors

import (
	"time"

	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
	"FinSeason/internal/services/calendar"
	"FinSeason/pkg/util"
)

// ReleaseHour flags the 08:00-09:59 ET hours of an 08:30 release day on hourly bars.
type ReleaseHour struct {
	cal    domsvc.CalendarReader
	typ    models.EventType
	prefix string
}

func NewReleaseHour(cal domsvc.CalendarReader, typ models.EventType, prefix string) *ReleaseHour {
	return &ReleaseHour{cal: cal, typ: typ, prefix: prefix}
}

func (e *ReleaseHour) Name() string                    { return e.prefix + "-release-hour" }
func (e *ReleaseHour) Granularity() domsvc.Granularity { return domsvc.GranularityIntraday }

func (e *ReleaseHour) Extract(t time.Time) (string, bool) {
	et := calendar.ToEastern(t)
	if h := et.Hour(); h < 8 || h > 9 {
		return "", false
	}
	if !e.cal.HasEventOn(util.DateOf(et), e.typ) {
		return "", false
	}
	return e.prefix + "-Release-Hour", true
}

var _ domsvc.PeriodExtractor = (*ReleaseHour)(nil)
