package seasonal

import (
	"fmt"
	"sort"

	"FinSeason/internal/domain/models"
)

const maxEventInsights = 3

func insufficientInsight(n int) string {
	return fmt.Sprintf("Insufficient data: %d bars, at least %d are needed for seasonal analysis", n, MinBars)
}

func describe(p models.SeasonalPattern) string {
	return fmt.Sprintf("%s (avg %+.2f%%, win rate %.0f%%, n=%d)", p.Label, p.AvgReturn, p.WinRate, p.SampleCount)
}

// extreme returns the patterns with the highest and lowest average return.
func extreme(ps []models.SeasonalPattern) (best, worst models.SeasonalPattern, ok bool) {
	if len(ps) == 0 {
		return best, worst, false
	}
	best, worst = ps[0], ps[0]
	for _, p := range ps[1:] {
		if p.AvgReturn > best.AvgReturn {
			best = p
		}
		if p.AvgReturn < worst.AvgReturn {
			worst = p
		}
	}
	return best, worst, true
}

// generateInsights applies a fixed, ordered rule set to the computed buckets.
func generateInsights(patterns map[models.PeriodType][]models.SeasonalPattern) []string {
	out := []string{}

	months := patterns[models.PeriodMonth]
	for _, p := range months {
		if isStrong(p) {
			out = append(out, "Strong month: "+describe(p))
		}
	}
	for _, p := range months {
		if isWeak(p) {
			out = append(out, "Weak month: "+describe(p))
		}
	}
	if best, worst, ok := extreme(months); ok && len(months) > 1 {
		out = append(out, "Best month: "+describe(best))
		out = append(out, "Worst month: "+describe(worst))
	}

	strongest := []struct {
		pt   models.PeriodType
		name string
	}{
		{models.PeriodQuarter, "quarter"},
		{models.PeriodDayOfWeek, "day of week"},
		{models.PeriodHourOfDay, "hour (ET)"},
		{models.PeriodMarketSession, "session"},
	}
	for _, s := range strongest {
		if best, _, ok := extreme(patterns[s.pt]); ok {
			out = append(out, fmt.Sprintf("Strongest %s: %s", s.name, describe(best)))
		}
	}

	for _, p := range patterns[models.PeriodNamed] {
		if p.WinRate > strongWinRate {
			out = append(out, fmt.Sprintf("%s confirmed: %s", p.Label, describe(p)))
		} else {
			out = append(out, fmt.Sprintf("%s not confirmed: %s", p.Label, describe(p)))
		}
	}

	var events []models.SeasonalPattern
	for _, p := range patterns[models.PeriodCustomEvent] {
		if p.IsSignificant {
			events = append(events, p)
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return abs(events[i].AvgReturn) > abs(events[j].AvgReturn) })
	for i := 0; i < len(events) && i < maxEventInsights; i++ {
		out = append(out, "Event-driven: "+describe(events[i]))
	}

	low := 0
	for _, pt := range models.AllPeriodTypes {
		for _, p := range patterns[pt] {
			if !p.IsSignificant {
				low++
			}
		}
	}
	if low > 0 {
		out = append(out, fmt.Sprintf("%d buckets have fewer than %d samples and are excluded from strong patterns", low, MinSignificantSamples))
	}
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
