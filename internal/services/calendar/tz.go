package calendar

import "time"

var (
	edt = time.FixedZone("EDT", -4*60*60)
	est = time.FixedZone("EST", -5*60*60)
)

// dstBounds returns the UTC instants US daylight saving time starts and ends in year.
// 02:00 EST on the 2nd Sunday of March is 07:00 UTC; 02:00 EDT on the 1st Sunday
// of November is 06:00 UTC.
func dstBounds(year int) (time.Time, time.Time) {
	start := NthWeekday(year, time.March, time.Sunday, 2).Add(7 * time.Hour)
	end := NthWeekday(year, time.November, time.Sunday, 1).Add(6 * time.Hour)
	return start, end
}

// IsEasternDST reports whether US Eastern time observes daylight saving at t.
func IsEasternDST(t time.Time) bool {
	u := t.UTC()
	start, end := dstBounds(u.Year())
	return !u.Before(start) && u.Before(end)
}

// EasternOffset returns the UTC offset of US Eastern time at t.
func EasternOffset(t time.Time) time.Duration {
	if IsEasternDST(t) {
		return -4 * time.Hour
	}
	return -5 * time.Hour
}

// ToEastern converts t to exchange-local time.
func ToEastern(t time.Time) time.Time {
	if IsEasternDST(t) {
		return t.In(edt)
	}
	return t.In(est)
}

// EasternHour returns the exchange-local hour of t.
func EasternHour(t time.Time) int { return ToEastern(t).Hour() }
