package volstats

import (
	"sort"
	"time"

	"volMonitor/internal/model"
)

// ExtractSeries groups observations by key and returns a date ascending series per key,
// keeping only observations dated on or before asOf.
func ExtractSeries[O any, K comparable](obs []O, asOf time.Time, pointOf func(O) (K, model.Point)) map[K]model.Series {
	cutoff := model.DateOf(asOf)
	out := make(map[K]model.Series)
	for _, o := range obs {
		key, point := pointOf(o)
		point.Date = model.DateOf(point.Date)
		if point.Date.After(cutoff) {
			continue
		}
		out[key] = append(out[key], point)
	}
	for key, series := range out {
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})
		out[key] = series
	}
	return out
}

// ExtractVolSeries builds implied vol series keyed by expiry and tenor.
func ExtractVolSeries(obs []model.VolObservation, asOf time.Time) map[model.VolKey]model.Series {
	return ExtractSeries(obs, asOf, func(o model.VolObservation) (model.VolKey, model.Point) {
		return o.Key(), model.Point{Date: o.Date, Value: o.Vol}
	})
}

// ExtractRateSeries builds swap rate series keyed by tenor.
func ExtractRateSeries(obs []model.RateObservation, asOf time.Time) map[int]model.Series {
	return ExtractSeries(obs, asOf, func(o model.RateObservation) (int, model.Point) {
		return o.Tenor, model.Point{Date: o.Date, Value: o.Rate}
	})
}
