package volstats

import (
	"math"
	"testing"

	"volMonitor/internal/model"
)

func TestImpliedVolMetricsEndToEnd(t *testing.T) {
	values := constant(21, 42)
	values[0] = 40
	values[14] = 45
	values[15] = 46
	values[19] = 48
	values[20] = 50

	key := model.VolKey{Expiry: "1M", Tenor: 2}
	got := ImpliedVolMetrics(map[model.VolKey]model.Series{key: toSeries(values)}, DefaultParams())

	m, ok := got[key]
	if !ok {
		t.Fatalf("missing metrics for %v", key)
	}
	l := m.Levels
	if l.Current != 50 {
		t.Fatalf("current mismatch: %v", l.Current)
	}
	if l.Change1D != 2 {
		t.Fatalf("1d change mismatch: %v", l.Change1D)
	}
	if l.Change1W != 50-values[15] {
		t.Fatalf("1w change mismatch: %v", l.Change1W)
	}
	if l.Change1M != 10 {
		t.Fatalf("1m change mismatch: %v", l.Change1M)
	}
	if l.High != 50 || l.Low != 42 {
		t.Fatalf("high/low should cover the last 20 points only: %v/%v", l.High, l.Low)
	}
	if !m.ObservedAt.Equal(day(20)) {
		t.Fatalf("observed at mismatch: %s", m.ObservedAt)
	}
	if l.Change1D+values[19] != l.Current {
		t.Fatalf("1d change does not reconcile")
	}
}

func TestImpliedVolMetricsHistoryBoundaries(t *testing.T) {
	four := model.VolKey{Expiry: "1M", Tenor: 2}
	five := model.VolKey{Expiry: "1M", Tenor: 5}
	six := model.VolKey{Expiry: "1M", Tenor: 10}

	got := ImpliedVolMetrics(map[model.VolKey]model.Series{
		four: toSeries([]float64{1, 2, 3, 4}),
		five: toSeries([]float64{10, 12, 11, 15, 13}),
		six:  toSeries([]float64{10, 12, 11, 15, 13, 16}),
	}, DefaultParams())

	if _, ok := got[four]; ok {
		t.Fatalf("series with 4 points must be excluded")
	}

	l := got[five].Levels
	if l.Current != 13 || l.Change1D != -2 {
		t.Fatalf("5-point metrics mismatch: %+v", l)
	}
	if !math.IsNaN(l.Change1W) || !math.IsNaN(l.Change1M) {
		t.Fatalf("1w and 1m must be undefined with 5 points: %+v", l)
	}
	if l.High != 15 || l.Low != 10 {
		t.Fatalf("short history high/low should use all points: %+v", l)
	}

	l = got[six].Levels
	if l.Change1W != 6 {
		t.Fatalf("6-point 1w change mismatch: %v", l.Change1W)
	}
	if !math.IsNaN(l.Change1M) {
		t.Fatalf("1m must be undefined with 6 points")
	}
}

func TestImpliedVolMetricsHighLowWindow(t *testing.T) {
	values := ramp(25, 100, -1)
	key := model.VolKey{Expiry: "3M", Tenor: 30}

	got := ImpliedVolMetrics(map[model.VolKey]model.Series{key: toSeries(values)}, DefaultParams())

	l := got[key].Levels
	if l.High != values[5] {
		t.Fatalf("high should start at the 20th point from the end: %v", l.High)
	}
	if l.Low != values[24] {
		t.Fatalf("low mismatch: %v", l.Low)
	}
}
