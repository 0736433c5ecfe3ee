package seasonal

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
)

var fixedNow = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func newTestAggregator(exts ...domsvc.PeriodExtractor) *Aggregator {
	return NewAggregator(exts, WithClock(func() time.Time { return fixedNow }))
}

// weekdayBars builds one bar per weekday in [from, to] with returns drawn from ret.
func weekdayBars(from, to time.Time, ret func(i int) float64) []models.PriceBar {
	var out []models.PriceBar
	price := 100.0
	i := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		price *= 1 + ret(i)
		i++
		out = append(out, models.PriceBar{Timestamp: d, Open: price, High: price * 1.01, Low: price * 0.99, Close: price, Volume: 1e6})
	}
	return out
}

func randomBars(seed int64, from, to time.Time) []models.PriceBar {
	rng := rand.New(rand.NewSource(seed))
	return weekdayBars(from, to, func(int) float64 { return rng.NormFloat64() * 0.012 })
}

func fiveYears() []models.PriceBar {
	return randomBars(42, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
}

func assertPatternInvariants(t *testing.T, a *models.SeasonalAnalysis) {
	t.Helper()
	for pt, ps := range a.Patterns {
		for _, p := range ps {
			assert.Equal(t, p.SampleCount, p.WinCount+p.LossCount, "%s/%s", pt, p.Label)
			assert.GreaterOrEqual(t, p.WinRate, 0.0)
			assert.LessOrEqual(t, p.WinRate, 100.0)
			assert.Greater(t, p.SampleCount, 0)
			assert.False(t, math.IsNaN(p.AvgReturn) || math.IsInf(p.AvgReturn, 0), "%s/%s avg", pt, p.Label)
			assert.False(t, math.IsNaN(p.ReturnStdDev) || math.IsInf(p.ReturnStdDev, 0), "%s/%s stdev", pt, p.Label)
			assert.Equal(t, p.SampleCount >= MinSignificantSamples, p.IsSignificant)
			require.NotNil(t, p.BestOccurrence)
			require.NotNil(t, p.WorstOccurrence)
			assert.GreaterOrEqual(t, p.BestOccurrence.Return, p.WorstOccurrence.Return)
		}
	}
}

func TestFiveYearsOfDailyBarsYieldTwelveMonths(t *testing.T) {
	bars := fiveYears()
	require.InDelta(t, 1300, len(bars), 50)

	a := newTestAggregator().Analyze(models.AnalysisRequest{
		Symbol: "SPY", YearsOfHistory: 5, Timeframe: models.TFDaily,
		PeriodTypes: []models.PeriodType{models.PeriodMonth},
	}, bars)

	require.False(t, a.InsufficientData)
	require.Len(t, a.Patterns, 1)
	months := a.Patterns[models.PeriodMonth]
	require.Len(t, months, 12)
	for i, p := range months {
		assert.Equal(t, time.Month(i+1).String(), p.Label)
		assert.Equal(t, 5, p.SampleCount, p.Label)
	}
	assertPatternInvariants(t, a)
	assert.Equal(t, SchemaVersion, a.SchemaVersion)
	assert.Equal(t, len(bars), a.DataPointCount)
	assert.Equal(t, fixedNow, a.GeneratedAt)
}

func TestAllPeriodTypesKeepInvariants(t *testing.T) {
	a := newTestAggregator(fridayExtractor{}).Analyze(models.AnalysisRequest{
		Symbol: "QQQ", YearsOfHistory: 5, Timeframe: models.TFDaily,
		PeriodTypes: models.AllPeriodTypes,
	}, fiveYears())

	assertPatternInvariants(t, a)
	for _, pt := range []models.PeriodType{
		models.PeriodMonth, models.PeriodQuarter, models.PeriodDayOfWeek, models.PeriodDayOfMonth,
		models.PeriodWeekOfMonth, models.PeriodWeekPosition, models.PeriodCustomEvent, models.PeriodNamed,
	} {
		assert.NotEmpty(t, a.Patterns[pt], pt)
	}
	assert.NotContains(t, a.Patterns, models.PeriodHourOfDay, "hourly buckets need hourly bars")
	assert.NotContains(t, a.Patterns, models.PeriodMarketSession)
	assert.Len(t, a.Patterns[models.PeriodDayOfWeek], 5)
	assert.Len(t, a.Patterns[models.PeriodQuarter], 4)
	assert.Len(t, a.Patterns[models.PeriodWeekOfMonth], 5)
	require.Len(t, a.Patterns[models.PeriodCustomEvent], 1)
	assert.Equal(t, "Friday-Event", a.Patterns[models.PeriodCustomEvent][0].Label)
}

func TestNamedPatterns(t *testing.T) {
	a := newTestAggregator().Analyze(models.AnalysisRequest{
		Symbol: "SPY", YearsOfHistory: 5, Timeframe: models.TFDaily,
		PeriodTypes: []models.PeriodType{models.PeriodNamed},
	}, fiveYears())

	named := a.Patterns[models.PeriodNamed]
	require.Len(t, named, 3)
	assert.Equal(t, EndOfYearRally, named[0].Label)
	assert.Equal(t, 5, named[0].SampleCount, "the series runs through Dec 31 2024")
	assert.Equal(t, SummerWeakness, named[1].Label)
	assert.Equal(t, 5, named[1].SampleCount)
	assert.Equal(t, NewYearEffect, named[2].Label)
	assert.Equal(t, 5, named[2].SampleCount)
	for _, o := range []*models.Occurrence{named[0].BestOccurrence, named[0].WorstOccurrence} {
		assert.Equal(t, time.December, o.Start.Month())
		assert.GreaterOrEqual(t, o.Start.Day(), 22)
	}
}

func TestEndOfYearRallySkipsPartialFinalDecember(t *testing.T) {
	for _, tc := range []struct {
		end  time.Time
		want int
	}{
		{time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC), 4},
		{time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), 4},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 5},
		// Dec 31 2023 is a Sunday; Friday Dec 29 closes the year.
		{time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), 4},
	} {
		bars := randomBars(42, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), tc.end)
		lab := namedLabeler(bars, localTime(models.TFDaily))
		dates := map[string]bool{}
		for i, b := range bars {
			for _, l := range lab(i, b.Timestamp) {
				if l == EndOfYearRally {
					dates[b.Timestamp.Format("2006")] = true
				}
			}
		}
		assert.Len(t, dates, tc.want, tc.end.Format("2006-01-02"))
	}
}

func TestConstantReturnsCompoundPerOccurrence(t *testing.T) {
	bars := weekdayBars(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC),
		func(int) float64 { return 0.01 })
	a := newTestAggregator().Analyze(models.AnalysisRequest{
		Symbol: "UP", YearsOfHistory: 1, Timeframe: models.TFDaily,
		PeriodTypes: []models.PeriodType{models.PeriodDayOfWeek, models.PeriodMonth},
	}, bars)

	for _, p := range a.Patterns[models.PeriodDayOfWeek] {
		assert.InDelta(t, 1.0, p.AvgReturn, 1e-9, p.Label)
		assert.InDelta(t, 0.0, p.ReturnStdDev, 1e-9, p.Label)
		assert.Equal(t, 100.0, p.WinRate)
	}
	feb := a.Patterns[models.PeriodMonth][1]
	require.Equal(t, "February", feb.Label)
	assert.Equal(t, 1, feb.SampleCount)
	assert.InDelta(t, (math.Pow(1.01, 20)-1)*100, feb.AvgReturn, 1e-6)
	assert.Equal(t, 0.0, feb.ReturnStdDev)
}

func TestOccurrencesSplitAtYearBoundary(t *testing.T) {
	days := []time.Time{
		time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	var points []point
	for i, d := range days {
		points = append(points, point{idx: i + 1, local: d, ret: 1})
	}
	always := func(int, time.Time) []string { return one("X") }
	ps := bucket(models.PeriodCustomEvent, points, always)
	require.Len(t, ps, 1)
	assert.Equal(t, 2, ps[0].SampleCount)

	gap := append([]point(nil), points[:2]...)
	gap = append(gap, point{idx: 5, local: days[1], ret: 1})
	ps = bucket(models.PeriodCustomEvent, gap, always)
	assert.Equal(t, 2, ps[0].SampleCount, "a skipped bar ends the run")
}

func TestInsufficientData(t *testing.T) {
	bars := weekdayBars(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		func(int) float64 { return 0.01 })
	a := newTestAggregator().Analyze(models.AnalysisRequest{Symbol: "NEW", YearsOfHistory: 1, Timeframe: models.TFDaily}, bars)
	assert.True(t, a.InsufficientData)
	assert.Empty(t, a.Patterns)
	require.Len(t, a.Insights, 1)
	assert.Contains(t, a.Insights[0], "Insufficient data")
	assert.Equal(t, 10, a.DataPointCount)
}

func TestUnknownPeriodTypesSkipped(t *testing.T) {
	a := newTestAggregator().Analyze(models.AnalysisRequest{
		Symbol: "SPY", YearsOfHistory: 5, Timeframe: models.TFDaily,
		PeriodTypes: []models.PeriodType{"lunar-phase", models.PeriodQuarter, models.PeriodQuarter},
	}, fiveYears())
	assert.Len(t, a.Patterns, 1)
	assert.Contains(t, a.Patterns, models.PeriodQuarter)
}

func TestNonPositiveClosesAreSkipped(t *testing.T) {
	bars := fiveYears()
	bars[100].Close = 0
	bars[200].Close = -5
	a := newTestAggregator().Analyze(models.AnalysisRequest{Symbol: "BAD", YearsOfHistory: 5, Timeframe: models.TFDaily,
		PeriodTypes: models.AllPeriodTypes}, bars)
	assertPatternInvariants(t, a)
}

func TestHourlySessionsAreDSTAware(t *testing.T) {
	var bars []models.PriceBar
	price := 100.0
	for d := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC); d.Before(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		// 13:30 UTC is 09:30 EDT.
		for h := 0; h < 7; h++ {
			price *= 1.001
			ts := d.Add(13*time.Hour + 30*time.Minute + time.Duration(h)*time.Hour)
			bars = append(bars, models.PriceBar{Timestamp: ts, Open: price, High: price, Low: price, Close: price})
		}
	}
	a := newTestAggregator().Analyze(models.AnalysisRequest{Symbol: "SPY", YearsOfHistory: 1, Timeframe: models.TFHourly}, bars)

	labels := func(pt models.PeriodType) []string {
		var out []string
		for _, p := range a.Patterns[pt] {
			out = append(out, p.Label)
		}
		return out
	}
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00"}, labels(models.PeriodHourOfDay))
	assert.Equal(t, []string{"open", "mid-day", "lunch", "afternoon", "power-hour"}, labels(models.PeriodMarketSession))
	assertPatternInvariants(t, a)
}

func TestSummaryAndInsightsAreDeterministic(t *testing.T) {
	req := models.AnalysisRequest{Symbol: "SPY", YearsOfHistory: 10, Timeframe: models.TFDaily, IncludeEvents: true}
	bars := randomBars(7, time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	agg := newTestAggregator(fridayExtractor{})
	a := agg.Analyze(req, bars)
	b := agg.Analyze(req, bars)
	assert.Equal(t, a, b)

	assert.Len(t, a.Summary.BestPeriods, 3)
	assert.Len(t, a.Summary.WorstPeriods, 3)
	assert.GreaterOrEqual(t, a.Summary.BestPeriods[0].AvgReturn, a.Summary.BestPeriods[2].AvgReturn)
	assert.LessOrEqual(t, a.Summary.WorstPeriods[0].AvgReturn, a.Summary.WorstPeriods[2].AvgReturn)
	for _, s := range a.Summary.StrongPatterns {
		assert.GreaterOrEqual(t, s.SampleCount, MinSignificantSamples)
		assert.Greater(t, s.WinRate, 60.0)
		assert.Greater(t, s.AvgReturn, 0.0)
	}
	assert.Contains(t, a.Patterns, models.PeriodCustomEvent)
	assert.NotEmpty(t, a.Insights)
	assertHasPrefix(t, a.Insights, "Best month: ")
	assertHasPrefix(t, a.Insights, "Strongest quarter: ")
	assertHasPrefix(t, a.Insights, "Strongest day of week: ")
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "seasonal:v3:AAPL:5:daily", CacheKey(" aapl", 5, models.TFDaily))
	assert.NotEqual(t, CacheKey("AAPL", 5, models.TFDaily), CacheKey("AAPL", 5, models.TFHourly))
}

type fridayExtractor struct{}

func (fridayExtractor) Name() string                    { return "friday" }
func (fridayExtractor) Granularity() domsvc.Granularity { return domsvc.GranularityDaily }
func (fridayExtractor) Extract(t time.Time) (string, bool) {
	if t.Weekday() == time.Friday {
		return "Friday-Event", true
	}
	return "", false
}

func assertHasPrefix(t *testing.T, xs []string, prefix string) {
	t.Helper()
	for _, x := range xs {
		if len(x) >= len(prefix) && x[:len(prefix)] == prefix {
			return
		}
	}
	t.Fatalf("no insight starts with %q in %v", prefix, xs)
}

func TestStaleKeyPatterns(t *testing.T) {
	assert.Equal(t, []string{"seasonal:v1:*", "seasonal:v2:*"}, StaleKeyPatterns())
}
