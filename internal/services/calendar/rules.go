package calendar

import (
	"time"

	"FinSeason/pkg/util"
)

// NthWeekday returns the n-th (1-based) weekday wd of the month.
func NthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	first := util.Date(year, month, 1)
	off := (int(wd) - int(first.Weekday()) + 7) % 7
	return util.AddDays(first, off+7*(n-1))
}

// LastWeekday returns the last weekday wd of the month.
func LastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	last := util.Date(year, month+1, 0)
	off := (int(last.Weekday()) - int(wd) + 7) % 7
	return util.AddDays(last, -off)
}

// OnOrAfter returns the first wd falling on or after d.
func OnOrAfter(d time.Time, wd time.Weekday) time.Time {
	d = util.DateOf(d)
	off := (int(wd) - int(d.Weekday()) + 7) % 7
	return util.AddDays(d, off)
}

// WeekStart returns Monday 00:00 UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := util.DateOf(t)
	off := (int(d.Weekday()) + 6) % 7
	return util.AddDays(d, -off)
}

// WeekEnd returns Sunday 23:59:59 of the week containing t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).Add(7*24*time.Hour - time.Second)
}

func LaborDay(year int) time.Time { return NthWeekday(year, time.September, time.Monday, 1) }

func Thanksgiving(year int) time.Time { return NthWeekday(year, time.November, time.Thursday, 4) }

// ElectionDay is the first Tuesday after the first Monday of November.
func ElectionDay(year int) time.Time {
	return util.AddDays(NthWeekday(year, time.November, time.Monday, 1), 1)
}

// ThirdFriday is the standard monthly options expiration day.
func ThirdFriday(year int, month time.Month) time.Time {
	return NthWeekday(year, month, time.Friday, 3)
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// isMajorFederalHoliday covers the days the weekly claims release is skipped.
func isMajorFederalHoliday(d time.Time) bool {
	y, m, day := d.Date()
	switch {
	case m == time.January && day == 1:
		return true
	case m == time.July && day == 4:
		return true
	case m == time.December && day == 25:
		return true
	}
	return d.Equal(Thanksgiving(y))
}

// isRuleHoliday is the fallback for years outside the holiday table.
func isRuleHoliday(d time.Time) bool {
	return isMajorFederalHoliday(d) || d.Equal(LaborDay(d.Year()))
}

func isQuarterEndMonth(m time.Month) bool {
	return m == time.March || m == time.June || m == time.September || m == time.December
}
