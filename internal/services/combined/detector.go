package combined

import (
	"time"

	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
	"FinSeason/internal/services/calendar"
)

// Detector classifies the week of a date into one combination of the catalog.
type Detector struct {
	cal domsvc.CalendarReader
}

func NewDetector(cal domsvc.CalendarReader) *Detector { return &Detector{cal: cal} }

// Detect returns the combination active in the Monday-Sunday week of date.
func (d *Detector) Detect(date time.Time) (models.EventCombination, bool) {
	active := d.activeInWeek(date)
	if len(active) == 0 {
		return models.EventCombination{}, false
	}
	out := models.EventCombination{
		WeekStart: calendar.WeekStart(date),
		WeekEnd:   calendar.WeekEnd(date),
	}

	var high []models.EventType
	for _, t := range active {
		if isHighImpact(t) {
			high = append(high, t)
		}
	}
	if len(high) >= 3 {
		m := multipleBase + multipleStep*float64(len(high)-3)
		if m > multipleCap {
			m = multipleCap
		}
		out.Type = MultipleHighImpact
		out.TriggeringEventTypes = high
		out.VolatilityMultiplier = m
		out.ExpectedImpact = models.ExpectedExtreme
		return out, true
	}

	set := make(map[models.EventType]bool, len(active))
	for _, t := range active {
		set[t] = true
	}
	var best *models.CombinationSpec
	for i := range catalog {
		entry := &catalog[i]
		if len(entry.RequiredTypes) == 0 || !containsAll(set, entry.RequiredTypes) {
			continue
		}
		if best == nil ||
			len(entry.RequiredTypes) > len(best.RequiredTypes) ||
			(len(entry.RequiredTypes) == len(best.RequiredTypes) && entry.VolatilityMultiplier > best.VolatilityMultiplier) {
			best = entry
		}
	}
	if best == nil {
		return models.EventCombination{}, false
	}
	out.Type = best.Type
	out.TriggeringEventTypes = append([]models.EventType(nil), best.RequiredTypes...)
	out.VolatilityMultiplier = best.VolatilityMultiplier
	out.ExpectedImpact = best.ExpectedImpact
	return out, true
}

func (d *Detector) activeInWeek(date time.Time) []models.EventType {
	inWeek := make(map[models.EventType]bool)
	for _, t := range d.cal.EventTypesInWeek(date) {
		inWeek[t] = true
	}
	var out []models.EventType
	for _, t := range activeTypes {
		if inWeek[t] {
			out = append(out, t)
		}
	}
	return out
}

func containsAll(set map[models.EventType]bool, req []models.EventType) bool {
	for _, t := range req {
		if !set[t] {
			return false
		}
	}
	return true
}

// AllCombinations returns a copy of the fixed catalog.
func AllCombinations() []models.CombinationSpec {
	out := make([]models.CombinationSpec, len(catalog))
	for i, c := range catalog {
		c.RequiredTypes = append([]models.EventType(nil), c.RequiredTypes...)
		out[i] = c
	}
	return out
}

// VolatilityMultiplier returns the documented constant for typ, or 1 for an unknown type.
func VolatilityMultiplier(typ models.CombinationType) float64 {
	for _, c := range catalog {
		if c.Type == typ {
			return c.VolatilityMultiplier
		}
	}
	return 1
}

func (d *Detector) Name() string                    { return "combined-event" }
func (d *Detector) Granularity() domsvc.Granularity { return domsvc.GranularityDaily }

// Extract lets the detector take part in extractor iteration.
func (d *Detector) Extract(t time.Time) (string, bool) {
	c, ok := d.Detect(t)
	if !ok {
		return "", false
	}
	return string(c.Type), true
}

var _ domsvc.PeriodExtractor = (*Detector)(nil)
