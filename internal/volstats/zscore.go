package volstats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ZScore scores the last value against the mean and sample std of the trailing window values
// (the last value included). NaN when history is shorter than window or the std is zero.
func ZScore(values []float64, window int) float64 {
	if window < 2 || len(values) < window {
		return math.NaN()
	}
	recent := values[len(values)-window:]
	mean, std := stat.MeanStdDev(recent, nil)
	if std == 0 || math.IsNaN(std) {
		return math.NaN()
	}
	return (values[len(values)-1] - mean) / std
}
