package combined

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSeason/internal/domain/models"
	"FinSeason/internal/services/calendar"
)

// fakeCalendar reports the same set of event types for every week.
type fakeCalendar struct {
	types []models.EventType
}

func (f fakeCalendar) HasEventOn(time.Time, models.EventType) bool { return false }
func (f fakeCalendar) IsEventWeek(_ time.Time, typ models.EventType) bool {
	for _, t := range f.types {
		if t == typ {
			return true
		}
	}
	return false
}
func (f fakeCalendar) EventTypesInWeek(time.Time) []models.EventType { return f.types }
func (f fakeCalendar) NearestEvent(models.EventType, time.Time) (models.CalendarEvent, bool) {
	return models.CalendarEvent{}, false
}

var wednesday = time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

func detect(types ...models.EventType) (models.EventCombination, bool) {
	return NewDetector(fakeCalendar{types: types}).Detect(wednesday)
}

func TestDetectMatching(t *testing.T) {
	cases := []struct {
		name  string
		types []models.EventType
		want  models.CombinationType
		mult  float64
	}{
		{"pair", []models.EventType{fomc, cpi}, FOMCCPI, 2.5},
		{"triple beats pair", []models.EventType{fomc, cpi, opex}, FOMCCPIOpEx, 3.0},
		{"non high-impact triple", []models.EventType{cpi, opex, earnings, rebal}, CPIOpExEarnings, 2.4},
		{"higher multiplier wins among pairs", []models.EventType{tw, rebal, earnings, opex}, TripleWitchingRebalance, 2.2},
		{"three high impact", []models.EventType{fomc, cpi, nfp}, MultipleHighImpact, 3.0},
		{"four high impact", []models.EventType{fomc, cpi, nfp, tw}, MultipleHighImpact, 3.5},
		{"capped", []models.EventType{fomc, cpi, nfp, tw, election, opex}, MultipleHighImpact, 4.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := detect(tc.types...)
			require.True(t, ok)
			assert.Equal(t, tc.want, got.Type)
			assert.InDelta(t, tc.mult, got.VolatilityMultiplier, 1e-9)
			assert.Equal(t, "2024-06-10", got.WeekStart.Format("2006-01-02"))
			assert.Equal(t, time.Sunday, got.WeekEnd.Weekday())
		})
	}
}

func TestDetectNoMatch(t *testing.T) {
	_, ok := detect()
	assert.False(t, ok)
	_, ok = detect(models.EventJoblessClaims, models.EventRetailSales)
	assert.False(t, ok)
	_, ok = detect(cpi)
	assert.False(t, ok)

	label, ok := NewDetector(fakeCalendar{}).Extract(wednesday)
	assert.False(t, ok)
	assert.Empty(t, label)
}

func TestCatalog(t *testing.T) {
	all := AllCombinations()
	require.Len(t, all, 17)
	seen := make(map[models.CombinationType]bool)
	for _, c := range all {
		assert.False(t, seen[c.Type], "duplicate %s", c.Type)
		seen[c.Type] = true
		assert.Equal(t, c.VolatilityMultiplier, VolatilityMultiplier(c.Type))
	}
	assert.Equal(t, 3.5, VolatilityMultiplier(MultipleHighImpact))
	assert.Equal(t, 1.0, VolatilityMultiplier("Nothing-Week"))

	all[0].RequiredTypes[0] = models.EventCustom
	assert.Equal(t, fomc, AllCombinations()[0].RequiredTypes[0])
}

func TestDetectOnRealCalendar(t *testing.T) {
	cfg := calendar.DefaultConfig()
	cfg.StartYear = 2022
	cfg.EndYear = 2026
	cal, err := calendar.New(cfg)
	require.NoError(t, err)
	d := NewDetector(cal)

	label, ok := d.Extract(wednesday)
	require.True(t, ok)
	assert.Equal(t, string(FOMCCPI), label)

	for ws := calendar.WeekStart(time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)); ws.Year() < 2027; ws = ws.AddDate(0, 0, 7) {
		c, ok := d.Detect(ws)
		if !ok || c.Type != MultipleHighImpact {
			continue
		}
		assert.GreaterOrEqual(t, c.VolatilityMultiplier, 3.0)
		assert.LessOrEqual(t, c.VolatilityMultiplier, 4.0)
		assert.GreaterOrEqual(t, len(c.TriggeringEventTypes), 3)
	}
}
