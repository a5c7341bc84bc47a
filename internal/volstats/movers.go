package volstats

import (
	"math"

	"volMonitor/internal/model"
)

// DetectMovers evaluates the three mover detections against the instrument's own history.
func DetectMovers(s model.Series, windows MoverWindows) model.MoverFlags {
	values := s.Values()
	return model.MoverFlags{
		OneDay:   IsLargestMover(values, windows.OneDay),
		OneWeek:  IsLargestMover(values, windows.OneWeek),
		OneMonth: IsLargestMover(values, windows.OneMonth),
	}
}

// IsLargestMover reports whether the absolute change over spec.Period ending at the last value
// equals the largest absolute change of the same period ending anywhere in the trailing
// spec.Lookback observations. Equality is exact, so ties all win.
func IsLargestMover(values []float64, spec MoverSpec) bool {
	n := len(values)
	if n < spec.MinHistory || n <= spec.Period {
		return false
	}

	current := math.Abs(values[n-1] - values[n-1-spec.Period])
	if math.IsNaN(current) {
		return false
	}

	largest := math.Inf(-1)
	for i := n - spec.Lookback; i < n; i++ {
		if i-spec.Period < 0 {
			continue
		}
		change := math.Abs(values[i] - values[i-spec.Period])
		if math.IsNaN(change) {
			continue
		}
		if change > largest {
			largest = change
		}
	}
	return current == largest
}
