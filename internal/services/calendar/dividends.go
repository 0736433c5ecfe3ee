package calendar

import (
	"sort"
	"time"

	"FinSeason/pkg/util"
)

// EstimateQuarterlyExDates fills [start, end] with a quarterly cadence anchored on the
// known ex-dates. Known dates inside the range are kept as-is; projected dates step
// three months backwards from the earliest and forwards from the latest known date.
func EstimateQuarterlyExDates(known []time.Time, start, end time.Time) []time.Time {
	if len(known) == 0 {
		return nil
	}
	start, end = util.DateOf(start), util.DateOf(end)
	sorted := make([]time.Time, 0, len(known))
	for _, d := range known {
		sorted = append(sorted, util.DateOf(d))
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	seen := make(map[time.Time]struct{})
	var out []time.Time
	add := func(d time.Time) {
		if d.Before(start) || d.After(end) {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	for _, d := range sorted {
		add(d)
	}
	first, last := sorted[0], sorted[len(sorted)-1]
	for i := 1; ; i++ {
		d := first.AddDate(0, -3*i, 0)
		if d.Before(start) {
			break
		}
		add(d)
	}
	for i := 1; ; i++ {
		d := last.AddDate(0, 3*i, 0)
		if d.After(end) {
			break
		}
		add(d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
