package volstats

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"volMonitor/internal/model"
)

// Trailing change offsets in observations.
const (
	offset1D = 1
	offset1W = 5
	offset1M = 20
)

// ImpliedMetrics are the annualized implied vol statistics of one instrument.
type ImpliedMetrics struct {
	Key        model.VolKey
	ObservedAt time.Time
	Levels     model.ImpliedLevels
}

// ImpliedVolMetrics computes current level, trailing changes and rolling high/low for every
// series with at least p.MinHistory points. Shorter series are left out.
func ImpliedVolMetrics(series map[model.VolKey]model.Series, p Params) map[model.VolKey]ImpliedMetrics {
	out := make(map[model.VolKey]ImpliedMetrics, len(series))
	for key, s := range series {
		if len(s) < p.MinHistory {
			continue
		}
		last, _ := s.Last()
		out[key] = ImpliedMetrics{
			Key:        key,
			ObservedAt: last.Date,
			Levels:     impliedLevels(s.Values(), p.HighLowWindow),
		}
	}
	return out
}

func impliedLevels(values []float64, highLowWindow int) model.ImpliedLevels {
	n := len(values)
	tail := values[max(0, n-highLowWindow):]
	return model.ImpliedLevels{
		Current:  values[n-1],
		Change1D: trailingChange(values, offset1D),
		Change1W: trailingChange(values, offset1W),
		Change1M: trailingChange(values, offset1M),
		High:     floats.Max(tail),
		Low:      floats.Min(tail),
	}
}

// trailingChange returns v[n-1] - v[n-1-offset], NaN when history is too short.
func trailingChange(values []float64, offset int) float64 {
	n := len(values)
	if n < offset+1 {
		return math.NaN()
	}
	return values[n-1] - values[n-1-offset]
}
