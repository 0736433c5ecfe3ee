package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSeason/internal/domain/models"
	"FinSeason/pkg/util"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.StartYear = 2019
	cfg.EndYear = 2027
	return cfg
}

func newTestCalendar(t *testing.T, opts ...Option) *Calendar {
	t.Helper()
	c, err := New(testConfig(), opts...)
	require.NoError(t, err)
	return c
}

func d(s string) time.Time {
	t, err := util.ParseISODate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLaborReportIsFirstFriday(t *testing.T) {
	c := newTestCalendar(t)
	for y := 2019; y <= 2027; y++ {
		for m := time.January; m <= time.December; m++ {
			rd, ok := c.ReleaseDate(models.EventLaborReport, y, m)
			require.True(t, ok, "%d-%02d", y, m)
			assert.Equal(t, time.Friday, rd.Weekday())
			assert.GreaterOrEqual(t, rd.Day(), 1)
			assert.LessOrEqual(t, rd.Day(), 7)
		}
	}
}

func TestManufacturingPMIShiftsOverWeekendsAndHolidays(t *testing.T) {
	c := newTestCalendar(t)
	cases := map[string]time.Time{
		"june 2024 starts on saturday":  c.ManufacturingPMIDate(2024, time.June),
		"new year 2024":                 c.ManufacturingPMIDate(2024, time.January),
		"labor day on the 1st":          c.ManufacturingPMIDate(2025, time.September),
		"sunday new year 2023 observed": c.ManufacturingPMIDate(2023, time.January),
	}
	want := map[string]string{
		"june 2024 starts on saturday":  "2024-06-03",
		"new year 2024":                 "2024-01-02",
		"labor day on the 1st":          "2025-09-02",
		"sunday new year 2023 observed": "2023-01-03",
	}
	for name, got := range cases {
		assert.Equal(t, want[name], util.FormatISODate(got), name)
	}
	assert.True(t, c.HasEventOn(d("2024-06-03"), models.EventManufacturingPMI))
}

func TestJoblessClaimsSkipsHolidayThursdays(t *testing.T) {
	c := newTestCalendar(t)
	for _, s := range []string{"2024-07-04", "2024-11-28", "2025-12-25", "2026-01-01", "2019-07-04"} {
		assert.False(t, c.HasEventOn(d(s), models.EventJoblessClaims), s)
	}
	assert.True(t, c.HasEventOn(d("2024-07-11"), models.EventJoblessClaims))
	for _, e := range c.EventsByType(models.EventJoblessClaims, d("2019-01-01"), d("2027-12-31")) {
		assert.Equal(t, time.Thursday, e.Date.Weekday())
	}
}

func TestRetailSalesStaysMidMonth(t *testing.T) {
	c := newTestCalendar(t)
	rd, ok := c.ReleaseDate(models.EventRetailSales, 2025, time.February)
	require.True(t, ok)
	assert.Equal(t, "2025-02-14", util.FormatISODate(rd))

	rd, _ = c.ReleaseDate(models.EventRetailSales, 2024, time.June)
	assert.Equal(t, "2024-06-18", util.FormatISODate(rd))

	for _, e := range c.EventsByType(models.EventRetailSales, d("2019-01-01"), d("2027-12-31")) {
		assert.GreaterOrEqual(t, e.Date.Day(), 13, util.FormatISODate(e.Date))
		assert.LessOrEqual(t, e.Date.Day(), 18, util.FormatISODate(e.Date))
	}
}

func TestPriceIndexTableAndFallback(t *testing.T) {
	c := newTestCalendar(t)
	rd, _ := c.ReleaseDate(models.EventPriceIndex, 2024, time.May)
	assert.Equal(t, "2024-05-15", util.FormatISODate(rd))
	rd, _ = c.ReleaseDate(models.EventPriceIndex, 2027, time.January)
	assert.Equal(t, "2027-01-13", util.FormatISODate(rd))
	assert.Len(t, c.EventsByType(models.EventPriceIndex, d("2024-01-01"), d("2024-12-31")), 12)
}

func TestOptionsExpiryAndRebalancing(t *testing.T) {
	c := newTestCalendar(t)
	assert.True(t, c.HasEventOn(d("2022-04-14"), models.EventOptionsExpiry), "good friday moves expiry to thursday")
	assert.False(t, c.HasEventOn(d("2022-04-15"), models.EventOptionsExpiry))

	assert.True(t, c.HasEventOn(d("2024-06-21"), models.EventTripleWitching))
	assert.False(t, c.HasEventOn(d("2024-05-17"), models.EventTripleWitching))
	assert.True(t, c.HasEventOn(d("2024-05-17"), models.EventOptionsExpiry))

	assert.True(t, c.HasEventOn(d("2024-06-21"), models.EventIndexRebalancing))
	assert.True(t, c.HasEventOn(d("2024-06-28"), models.EventIndexRebalancing))

	cfg := testConfig()
	cfg.DetectOptionsExpiry = false
	noOpEx, err := New(cfg)
	require.NoError(t, err)
	assert.Empty(t, noOpEx.EventsByType(models.EventOptionsExpiry, d("2019-01-01"), d("2027-12-31")))
}

func TestElections(t *testing.T) {
	c := newTestCalendar(t)
	evs := c.EventsByType(models.EventElection, d("2024-01-01"), d("2026-12-31"))
	require.Len(t, evs, 2)
	assert.Equal(t, "2024-11-05", util.FormatISODate(evs[0].Date))
	assert.Equal(t, "Presidential Election", evs[0].Name)
	assert.Equal(t, "2026-11-03", util.FormatISODate(evs[1].Date))
	assert.Equal(t, "Midterm Election", evs[1].Name)
}

func TestEarningsSeasonWeeks(t *testing.T) {
	c := newTestCalendar(t)
	evs := c.EventsByType(models.EventEarningsSeason, d("2024-01-01"), d("2024-01-31"))
	require.Len(t, evs, 4)
	assert.Equal(t, "2024-01-08", util.FormatISODate(evs[0].Date))
	assert.Equal(t, "2024-01-29", util.FormatISODate(evs[3].Date))
}

func TestEventsForDateMergesWeekEvents(t *testing.T) {
	c := newTestCalendar(t)
	evs := c.EventsForDate(d("2024-06-10"))
	names := make([]string, 0, len(evs))
	for _, e := range evs {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "FOMC Week")
	assert.Contains(t, names, "CPI Week")

	onDay := c.EventsForDate(d("2024-06-12"))
	require.NotEmpty(t, onDay)
	assert.Equal(t, "FOMC Rate Decision", onDay[0].Name)
	for _, e := range onDay {
		assert.NotEqual(t, "FOMC Week", e.Name)
	}
}

func TestWeekBoundaries(t *testing.T) {
	assert.Equal(t, "2024-06-10", util.FormatISODate(WeekStart(d("2024-06-16"))))
	assert.Equal(t, "2024-06-10", util.FormatISODate(WeekStart(d("2024-06-10"))))
	end := WeekEnd(d("2024-06-12"))
	assert.Equal(t, time.Sunday, end.Weekday())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Second())
}

func TestCustomEventRoundTrip(t *testing.T) {
	cfg := testConfig()
	cfg.CustomEvents = []models.CustomEventConfig{
		{Date: "2025-03-05", Name: "Investor Day", Type: "custom", Impact: "high", Ticker: "ACME"},
	}
	c, err := New(cfg)
	require.NoError(t, err)

	var found *models.CalendarEvent
	for _, e := range c.EventsForDate(d("2025-03-05")) {
		if e.Name == "Investor Day" {
			e := e
			found = &e
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, models.EventCustom, found.Type)
	assert.Equal(t, models.ImpactHigh, found.Impact)
	assert.Equal(t, "ACME", found.Ticker)
}

func TestConstructionFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.RateDecisionDates = []string{"2024-01-31", "2024-02-30"}
	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
	var de *DateError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "rate_decision_dates", de.Context)
	assert.Equal(t, 1, de.Index)
	assert.Equal(t, "2024-02-30", de.Value)

	cfg = testConfig()
	cfg.CustomEvents = []models.CustomEventConfig{{Date: "2024/01/05", Name: "x"}}
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidDate)

	cfg = testConfig()
	cfg.CustomEvents = []models.CustomEventConfig{{Date: "2024-01-05", Name: "x", Type: "meteor"}}
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = testConfig()
	cfg.EndYear = cfg.StartYear - 1
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRateDecisionOverridesReplaceTable(t *testing.T) {
	cfg := testConfig()
	cfg.RateDecisionDates = []string{"2024-02-07"}
	c, err := New(cfg)
	require.NoError(t, err)
	evs := c.EventsByType(models.EventRateDecision, d("2019-01-01"), d("2027-12-31"))
	require.Len(t, evs, 1)
	assert.Equal(t, "2024-02-07", util.FormatISODate(evs[0].Date))
}

func TestEveryEventIsIndexed(t *testing.T) {
	c := newTestCalendar(t, WithDividendExDates("acme", []time.Time{d("2024-02-09")}))
	for _, e := range c.Events() {
		assert.True(t, c.HasEventOn(e.Date, e.Type))
		assert.True(t, c.IsEventWeek(e.Date, e.Type))
		found := false
		for _, m := range c.EventsForMonth(e.Date.Year(), e.Date.Month()) {
			if m == e {
				found = true
				break
			}
		}
		assert.True(t, found, "%s %s missing from month index", e.Name, util.FormatISODate(e.Date))
	}
	div := c.EventsByType(models.EventDividendExDate, d("2024-01-01"), d("2024-12-31"))
	require.Len(t, div, 1)
	assert.Equal(t, "ACME", div[0].Ticker)
}

func TestMarketHolidays(t *testing.T) {
	c := newTestCalendar(t)
	assert.True(t, c.IsMarketHoliday(d("2025-01-09")))
	assert.True(t, c.IsMarketHoliday(d("2026-04-03")))
	assert.False(t, c.IsMarketHoliday(d("2024-06-03")))
	assert.True(t, c.IsMarketHoliday(d("2019-12-25")), "rule fallback outside the table")
	assert.False(t, c.IsBusinessDay(d("2024-06-01")))
}

func TestStalenessCheck(t *testing.T) {
	late := newTestCalendar(t, WithClock(func() time.Time { return d("2026-10-15") }))
	assert.True(t, late.CheckStaleness())
	assert.Equal(t, "2026-12-25", util.FormatISODate(late.LatestTabulatedDate()))

	early := newTestCalendar(t, WithClock(func() time.Time { return d("2024-01-01") }))
	assert.False(t, early.CheckStaleness())
}

func TestNearestEvent(t *testing.T) {
	c := newTestCalendar(t)
	e, ok := c.NearestEvent(models.EventPriceIndex, d("2024-06-14"))
	require.True(t, ok)
	assert.Equal(t, "2024-06-12", util.FormatISODate(e.Date))
	e, _ = c.NearestEvent(models.EventPriceIndex, d("2024-07-08"))
	assert.Equal(t, "2024-07-11", util.FormatISODate(e.Date))
}

func TestEstimateQuarterlyExDates(t *testing.T) {
	got := EstimateQuarterlyExDates([]time.Time{d("2024-02-09"), d("2024-05-10")}, d("2023-06-01"), d("2024-12-31"))
	var s []string
	for _, g := range got {
		s = append(s, util.FormatISODate(g))
	}
	assert.Equal(t, []string{"2023-08-09", "2023-11-09", "2024-02-09", "2024-05-10", "2024-08-10", "2024-11-10"}, s)
	assert.Nil(t, EstimateQuarterlyExDates(nil, d("2023-01-01"), d("2024-01-01")))
}
