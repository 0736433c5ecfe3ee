package features

import (
	"math"
	"time"

	"FinSeason/internal/domain/models"
)

// ComputeLogReturns computes log returns r_t = ln(C_t / C_{t-1}).
// Pairs with a non-positive close are skipped. Returns nil if insufficient data.
func ComputeLogReturns(bars []models.PriceBar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	out := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		cur := bars[i].Close
		if prev <= 0 || cur <= 0 {
			continue
		}
		r := math.Log(cur / prev)
		if IsFinite(r) {
			out = append(out, r)
		}
	}
	return out
}

// PctChange is the close-to-close percentage return. ok is false when prev is not
// positive or the result is not finite.
func PctChange(prev, cur float64) (float64, bool) {
	if prev <= 0 {
		return 0, false
	}
	r := (cur - prev) / prev * 100
	return r, IsFinite(r)
}

// RealizedVolatility computes annualized realized volatility over a rolling window
// using the provided number of bars per year. Returns the latest window sigma.
func RealizedVolatility(logReturns []float64, window int, barsPerYear float64) float64 {
	if window <= 1 || len(logReturns) < window {
		return 0
	}
	sd, ok := StdDev(logReturns[len(logReturns)-window:])
	if !ok {
		return 0
	}
	// annualize
	return sd * math.Sqrt(barsPerYear)
}

// Mean of xs; ok is false for an empty slice.
func Mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	m := sum / float64(len(xs))
	return m, IsFinite(m)
}

// StdDev is the sample standard deviation (n-1). A single sample has zero spread.
func StdDev(xs []float64) (float64, bool) {
	mean, ok := Mean(xs)
	if !ok {
		return 0, false
	}
	if len(xs) == 1 {
		return 0, true
	}
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(len(xs)-1))
	return sd, IsFinite(sd)
}

func IsFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// BarsPerYearForTF returns the approximate number of bars per year for a timeframe.
func BarsPerYearForTF(tf models.Timeframe) float64 {
	switch tf {
	case models.TFHourly:
		return 252 * 7
	default:
		return 252
	}
}

// AlignFromTo rounds time range to bar boundaries based on timeframe.
func AlignFromTo(from, to time.Time, tf models.Timeframe) (time.Time, time.Time) {
	switch tf {
	case models.TFHourly:
		from = from.Truncate(time.Hour)
		to = to.Truncate(time.Hour)
	default:
		from = from.UTC().Truncate(24 * time.Hour)
		to = to.UTC().Truncate(24 * time.Hour)
	}
	return from, to
}
