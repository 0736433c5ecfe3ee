package features

import (
	"math"
	"testing"
	"time"

	"FinSeason/internal/domain/models"
)

func TestComputeLogReturnsSkipsBadCloses(t *testing.T) {
	bars := []models.PriceBar{{Close: 100}, {Close: 110}, {Close: 0}, {Close: 121}, {Close: 133.1}}
	got := ComputeLogReturns(bars)
	if len(got) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(got))
	}
	if math.Abs(got[0]-math.Log(1.1)) > 1e-12 {
		t.Fatalf("unexpected first return %v", got[0])
	}
	if ComputeLogReturns(bars[:1]) != nil {
		t.Fatalf("expected nil for a single bar")
	}
}

func TestStdDev(t *testing.T) {
	sd, ok := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !ok || math.Abs(sd-2.138089935) > 1e-6 {
		t.Fatalf("unexpected stdev %v ok=%v", sd, ok)
	}
	sd, ok = StdDev([]float64{3})
	if !ok || sd != 0 {
		t.Fatalf("single sample must have zero stdev, got %v", sd)
	}
	if _, ok := StdDev(nil); ok {
		t.Fatalf("empty input must not be ok")
	}
}

func TestPctChange(t *testing.T) {
	if r, ok := PctChange(100, 105); !ok || math.Abs(r-5) > 1e-12 {
		t.Fatalf("unexpected pct change %v", r)
	}
	if _, ok := PctChange(0, 5); ok {
		t.Fatalf("zero previous close must be rejected")
	}
}

func TestRealizedVolatility(t *testing.T) {
	if v := RealizedVolatility([]float64{0.01}, 5, 252); v != 0 {
		t.Fatalf("expected 0 for short input, got %v", v)
	}
	v := RealizedVolatility([]float64{0.01, -0.01, 0.01, -0.01}, 4, 252)
	if v <= 0 {
		t.Fatalf("expected positive volatility, got %v", v)
	}
}

func TestAlignFromTo(t *testing.T) {
	from := time.Date(2024, 3, 5, 13, 45, 10, 0, time.UTC)
	f, to := AlignFromTo(from, from.Add(2*time.Hour), models.TFHourly)
	if f.Minute() != 0 || to.Hour() != 15 {
		t.Fatalf("unexpected hourly alignment %v %v", f, to)
	}
	f, _ = AlignFromTo(from, from, models.TFDaily)
	if f.Hour() != 0 {
		t.Fatalf("daily alignment must drop the clock, got %v", f)
	}
}
