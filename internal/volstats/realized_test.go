package volstats

import (
	"math"
	"testing"

	"volMonitor/internal/model"
)

func TestRealizedVolMetricsConstantRates(t *testing.T) {
	p := DefaultParams()
	got := RealizedVolMetrics(map[int]model.Series{2: toSeries(constant(180, 4.25))}, p)

	vols, ok := got[2]
	if !ok {
		t.Fatalf("missing realized metrics for tenor 2")
	}
	if len(vols) != len(p.RealizedWindows) {
		t.Fatalf("expected %d windows, got %d", len(p.RealizedWindows), len(vols))
	}
	for i, rv := range vols {
		if rv.Window != p.RealizedWindows[i] {
			t.Fatalf("window order mismatch: %d != %d", rv.Window, p.RealizedWindows[i])
		}
		if rv.Vol != 0 {
			t.Fatalf("constant rates must give exactly 0 for window %d, got %v", rv.Window, rv.Vol)
		}
	}
}

func TestRealizedVolMetricsShortHistoryExcluded(t *testing.T) {
	got := RealizedVolMetrics(map[int]model.Series{10: toSeries(ramp(100, 4, 0.01))}, DefaultParams())
	if _, ok := got[10]; ok {
		t.Fatalf("tenor with 100 points must be excluded when max window is 180")
	}
}

func TestRealizedVolKnownValue(t *testing.T) {
	// bp changes: +1, +2, -3, +2 -> sample std sqrt(17/3)
	rates := []float64{1.00, 1.01, 1.03, 1.00, 1.02}
	want := math.Sqrt(17.0 / 3.0)

	daily := RealizedVol(rates, 4, RatePercent, 0)
	if !approxEqual(daily, want, 1e-9) {
		t.Fatalf("daily realized mismatch: %v != %v", daily, want)
	}

	annual := RealizedVol(rates, 4, RatePercent, 252)
	if !approxEqual(annual, want*math.Sqrt(252), 1e-8) {
		t.Fatalf("annualized realized mismatch: %v", annual)
	}
}

func TestRealizedVolMinPeriods(t *testing.T) {
	// window 10 needs 5 finite changes
	six := ramp(6, 4, 0.02)
	six[2] += 0.01
	if v := RealizedVol(six, 10, RatePercent, 0); math.IsNaN(v) {
		t.Fatalf("5 changes should satisfy window 10")
	}

	five := ramp(5, 4, 0.02)
	if v := RealizedVol(five, 10, RatePercent, 0); !math.IsNaN(v) {
		t.Fatalf("4 changes should not satisfy window 10, got %v", v)
	}
}

func TestRealizedVolSkipsMissingRates(t *testing.T) {
	rates := []float64{1.00, 1.01, math.NaN(), 1.03, 1.00, 1.02, 1.04}
	// finite changes: +1, -3, +2, +2
	want := RealizedVol([]float64{1.00, 1.01, 0.98, 1.00, 1.02}, 4, RatePercent, 0)

	got := RealizedVol(rates, 6, RatePercent, 0)
	if !approxEqual(got, want, 1e-9) {
		t.Fatalf("missing rates should be skipped: %v != %v", got, want)
	}
}

func TestRealizedVolDecimalMatchesPercent(t *testing.T) {
	percent := []float64{4.10, 4.15, 4.05, 4.20, 4.18, 4.25, 4.22}
	decimal := make([]float64, len(percent))
	for i, r := range percent {
		decimal[i] = r / 100
	}

	a := RealizedVol(percent, 6, RatePercent, 252)
	b := RealizedVol(decimal, 6, RateDecimal, 252)
	if !approxEqual(a, b, 1e-6) {
		t.Fatalf("decimal and percent mismatch: %v != %v", a, b)
	}
}

func TestRealizedVolMetricsDailyMode(t *testing.T) {
	p := DefaultParams()
	p.RealizedWindows = []int{10, 20}
	rates := ramp(40, 4, 0.01)
	for i := range rates {
		if i%3 == 0 {
			rates[i] += 0.02
		}
	}
	series := map[int]model.Series{5: toSeries(rates)}

	annual := RealizedVolMetrics(series, p)[5]
	p.AnnualizeRealized = false
	daily := RealizedVolMetrics(series, p)[5]

	for i := range annual {
		if !approxEqual(daily[i].Vol*math.Sqrt(252), annual[i].Vol, 1e-9) {
			t.Fatalf("window %d: daily %v does not annualize to %v", annual[i].Window, daily[i].Vol, annual[i].Vol)
		}
	}
}
