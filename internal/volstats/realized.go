package volstats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"volMonitor/internal/model"
)

// RealizedVolMetrics computes realized vol for every configured window of each rate series
// holding at least max(p.RealizedWindows) points. Shorter series are left out.
func RealizedVolMetrics(series map[int]model.Series, p Params) map[int][]model.RealizedVol {
	minLen := p.maxWindow()
	out := make(map[int][]model.RealizedVol, len(series))
	for tenor, s := range series {
		if len(s) < minLen {
			continue
		}
		diffs := bpChanges(s.Values(), p.RateUnit)
		vols := make([]model.RealizedVol, 0, len(p.RealizedWindows))
		for _, w := range p.RealizedWindows {
			vol := rollingStd(diffs, w)
			if p.AnnualizeRealized {
				vol *= math.Sqrt(p.TradingDaysPerYear)
			}
			vols = append(vols, model.RealizedVol{Window: w, Vol: vol})
		}
		out[tenor] = vols
	}
	return out
}

// RealizedVol returns the std of bp rate changes over the trailing window anchored at the
// last rate, annualized with tradingDays when tradingDays > 0.
func RealizedVol(rates []float64, window int, unit RateUnit, tradingDays float64) float64 {
	vol := rollingStd(bpChanges(rates, unit), window)
	if tradingDays > 0 {
		vol *= math.Sqrt(tradingDays)
	}
	return vol
}

// bpChanges returns first differences in basis points. The first entry is NaN.
func bpChanges(rates []float64, unit RateUnit) []float64 {
	out := make([]float64, len(rates))
	if len(rates) == 0 {
		return out
	}
	scale := unit.bpScale()
	out[0] = math.NaN()
	for i := 1; i < len(rates); i++ {
		d := (rates[i] - rates[i-1]) * scale
		if math.IsInf(d, 0) {
			d = math.NaN()
		}
		out[i] = d
	}
	return out
}

// rollingStd is the sample std of the finite values in the last window entries. It is NaN
// when fewer than window/2 of them are finite.
func rollingStd(diffs []float64, window int) float64 {
	if window <= 0 || len(diffs) == 0 {
		return math.NaN()
	}
	tail := diffs[max(0, len(diffs)-window):]
	valid := make([]float64, 0, len(tail))
	for _, d := range tail {
		if !math.IsNaN(d) {
			valid = append(valid, d)
		}
	}
	minPeriods := max(window/2, 1)
	if len(valid) < minPeriods || len(valid) < 2 {
		return math.NaN()
	}
	return stat.StdDev(valid, nil)
}
