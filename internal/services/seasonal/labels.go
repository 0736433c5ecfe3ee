package seasonal

import (
	"fmt"
	"time"

	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
	"FinSeason/internal/services/calendar"
)

const (
	EndOfYearRally = "End-Of-Year-Rally"
	SummerWeakness = "Summer-Weakness"
	NewYearEffect  = "New-Year-Effect"

	endOfYearDays = 5
)

var (
	quarterLabels = []string{"Q1", "Q2", "Q3", "Q4"}
	weekdayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	namedLabels   = []string{EndOfYearRally, SummerWeakness, NewYearEffect}
	ordinals      = []string{"First", "Second", "Third", "Fourth"}
)

type session struct {
	label      string
	start, end int // minutes after midnight ET, end exclusive
}

var sessions = []session{
	{"pre-market", 4 * 60, 9*60 + 30},
	{"open", 9*60 + 30, 10*60 + 30},
	{"mid-day", 10*60 + 30, 12 * 60},
	{"lunch", 12 * 60, 13*60 + 30},
	{"afternoon", 13*60 + 30, 15 * 60},
	{"power-hour", 15 * 60, 16 * 60},
}

// labeler maps one bar (by index and local time) to zero or more labels.
type labeler func(i int, local time.Time) []string

func one(s string) []string { return []string{s} }

func weekdayLabel(wd time.Weekday) string { return weekdayLabels[(int(wd)+6)%7] }

func monthLabeler(_ int, t time.Time) []string   { return one(t.Month().String()) }
func quarterLabeler(_ int, t time.Time) []string { return one(quarterLabels[(int(t.Month())-1)/3]) }
func weekdayLabeler(_ int, t time.Time) []string { return one(weekdayLabel(t.Weekday())) }
func hourLabeler(_ int, t time.Time) []string    { return one(fmt.Sprintf("%02d:00", t.Hour())) }
func dayOfMonthLabeler(_ int, t time.Time) []string {
	return one(fmt.Sprintf("Day-%02d", t.Day()))
}
func weekOfMonthLabeler(_ int, t time.Time) []string {
	return one(fmt.Sprintf("Week-%d", (t.Day()-1)/7+1))
}

func sessionLabeler(_ int, t time.Time) []string {
	m := t.Hour()*60 + t.Minute()
	for _, s := range sessions {
		if m >= s.start && m < s.end {
			return one(s.label)
		}
	}
	return nil
}

// weekPositionLabeler yields "First-Monday" .. "Fourth-Friday", or "Last-<Weekday>"
// for the final occurrence of the weekday in its month.
func weekPositionLabeler(_ int, t time.Time) []string {
	daysIn := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	wd := weekdayLabel(t.Weekday())
	if t.Day()+7 > daysIn {
		return one("Last-" + wd)
	}
	return one(ordinals[(t.Day()-1)/7] + "-" + wd)
}

// namedLabeler builds the composite-pattern labeler. The end-of-year window is the
// last five distinct trading dates of each December that the series fully covers.
func namedLabeler(bars []models.PriceBar, local func(time.Time) time.Time) labeler {
	eoy := make(map[int]bool)
	byYear := make(map[int][]string)
	var last time.Time
	for _, b := range bars {
		t := local(b.Timestamp)
		if t.After(last) {
			last = t
		}
		if t.Month() != time.December {
			continue
		}
		key := t.Format("2006-01-02")
		dates := byYear[t.Year()]
		if len(dates) == 0 || dates[len(dates)-1] != key {
			byYear[t.Year()] = append(dates, key)
		}
	}
	window := make(map[string]bool)
	for y, dates := range byYear {
		if y == last.Year() && dates[len(dates)-1] < lastWeekdayOfDecember(y) {
			continue
		}
		from := len(dates) - endOfYearDays
		if from < 0 {
			from = 0
		}
		for _, d := range dates[from:] {
			window[d] = true
		}
	}
	for i, b := range bars {
		if window[local(b.Timestamp).Format("2006-01-02")] {
			eoy[i] = true
		}
	}

	return func(i int, t time.Time) []string {
		var out []string
		if eoy[i] {
			out = append(out, EndOfYearRally)
		}
		if t.Month() >= time.May && t.Month() <= time.October {
			out = append(out, SummerWeakness)
		}
		if t.Month() == time.January {
			out = append(out, NewYearEffect)
		}
		return out
	}
}

func lastWeekdayOfDecember(year int) string {
	d := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d.Format("2006-01-02")
}

// eventLabeler collects the labels of every extractor that understands tf.
// Extractors see the bar in local time so event days and weeks follow the same
// calendar date as the structural labels (the ET date for hourly bars).
func eventLabeler(exts []domsvc.PeriodExtractor, tf models.Timeframe) labeler {
	var usable []domsvc.PeriodExtractor
	for _, e := range exts {
		if e.Granularity().Supports(tf) {
			usable = append(usable, e)
		}
	}
	return func(_ int, local time.Time) []string {
		var out []string
		for _, e := range usable {
			if l, ok := e.Extract(local); ok {
				out = append(out, l)
			}
		}
		return out
	}
}

// localTime is exchange time for hourly bars and the UTC calendar date for daily bars.
func localTime(tf models.Timeframe) func(time.Time) time.Time {
	if tf == models.TFHourly {
		return calendar.ToEastern
	}
	return func(t time.Time) time.Time { return t.UTC() }
}

// labelOrder returns the natural report order of a structural period type.
func labelOrder(pt models.PeriodType) []string {
	switch pt {
	case models.PeriodMonth:
		out := make([]string, 0, 12)
		for m := time.January; m <= time.December; m++ {
			out = append(out, m.String())
		}
		return out
	case models.PeriodQuarter:
		return quarterLabels
	case models.PeriodDayOfWeek:
		return weekdayLabels
	case models.PeriodHourOfDay:
		out := make([]string, 0, 24)
		for h := 0; h < 24; h++ {
			out = append(out, fmt.Sprintf("%02d:00", h))
		}
		return out
	case models.PeriodMarketSession:
		out := make([]string, 0, len(sessions))
		for _, s := range sessions {
			out = append(out, s.label)
		}
		return out
	case models.PeriodDayOfMonth:
		out := make([]string, 0, 31)
		for d := 1; d <= 31; d++ {
			out = append(out, fmt.Sprintf("Day-%02d", d))
		}
		return out
	case models.PeriodWeekOfMonth:
		return []string{"Week-1", "Week-2", "Week-3", "Week-4", "Week-5"}
	case models.PeriodWeekPosition:
		var out []string
		for _, o := range append(append([]string(nil), ordinals...), "Last") {
			for _, wd := range weekdayLabels {
				out = append(out, o+"-"+wd)
			}
		}
		return out
	case models.PeriodNamed:
		return namedLabels
	}
	return nil
}
