package volstats

import (
	"math"
	"time"

	"volMonitor/internal/model"
)

var baseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(i int) time.Time {
	return baseDate.AddDate(0, 0, i)
}

func volObs(expiry string, tenor int, values ...float64) []model.VolObservation {
	out := make([]model.VolObservation, 0, len(values))
	for i, v := range values {
		out = append(out, model.VolObservation{Date: day(i), Expiry: expiry, Tenor: tenor, Vol: v})
	}
	return out
}

func rateObs(tenor int, values ...float64) []model.RateObservation {
	out := make([]model.RateObservation, 0, len(values))
	for i, v := range values {
		out = append(out, model.RateObservation{Date: day(i), Tenor: tenor, Rate: v})
	}
	return out
}

// rateObsEnding dates the values so the last one falls on day(end).
func rateObsEnding(tenor, end int, values ...float64) []model.RateObservation {
	out := make([]model.RateObservation, 0, len(values))
	first := end - len(values) + 1
	for i, v := range values {
		out = append(out, model.RateObservation{Date: day(first + i), Tenor: tenor, Rate: v})
	}
	return out
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func toSeries(values []float64) model.Series {
	s := make(model.Series, len(values))
	for i, v := range values {
		s[i] = model.Point{Date: day(i), Value: v}
	}
	return s
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
