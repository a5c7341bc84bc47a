package volstats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"volMonitor/internal/model"
)

const dateLayout = "2006-01-02"

// Build computes the swaption vol table as of asOf. Rows are restricted to the configured grid
// and ordered by expiry rank, then tenor. The only failures are invalid parameters and an as-of
// date outside the implied universe.
func Build(vol []model.VolObservation, rates []model.RateObservation, asOf time.Time, p Params) ([]model.MetricRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := CheckDateRange(vol, asOf); err != nil {
		return nil, err
	}

	asOfDay := model.DateOf(asOf)
	volSeries := ExtractVolSeries(vol, asOfDay)
	rateSeries := ExtractRateSeries(rates, asOfDay)

	implied := ImpliedVolMetrics(volSeries, p)
	realized := RealizedVolMetrics(rateSeries, p)

	expiryRank := make(map[string]int, len(p.Expiries))
	for i, expiry := range p.Expiries {
		if _, ok := expiryRank[expiry]; !ok {
			expiryRank[expiry] = i
		}
	}
	tenorSet := make(map[int]struct{}, len(p.Tenors))
	for _, tenor := range p.Tenors {
		tenorSet[tenor] = struct{}{}
	}

	toDaily := 1 / math.Sqrt(p.TradingDaysPerYear)
	rows := make([]model.MetricRow, 0, len(implied))
	for key, m := range implied {
		if _, ok := expiryRank[key.Expiry]; !ok {
			continue
		}
		if _, ok := tenorSet[key.Tenor]; !ok {
			continue
		}

		values := volSeries[key].Values()
		rows = append(rows, model.MetricRow{
			Expiry:     key.Expiry,
			Tenor:      key.Tenor,
			Label:      Label(key),
			AsOf:       asOfDay,
			ObservedAt: m.ObservedAt,
			Annualized: m.Levels,
			Daily:      m.Levels.Scale(toDaily),
			Realized:   joinRealized(realized, key.Tenor, p.RealizedWindows),
			ZScore:     ZScore(values, p.ZScoreWindow),
			Movers:     DetectMovers(volSeries[key], p.Movers),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		ri, rj := expiryRank[rows[i].Expiry], expiryRank[rows[j].Expiry]
		if ri != rj {
			return ri < rj
		}
		return rows[i].Tenor < rows[j].Tenor
	})
	return rows, nil
}

// CheckDateRange fails with ErrInvalidDateRange when asOf is outside the observed dates.
func CheckDateRange(vol []model.VolObservation, asOf time.Time) error {
	first, last, ok := model.VolDateRange(vol)
	if !ok {
		return fmt.Errorf("%w: no implied vol observations loaded", ErrInvalidDateRange)
	}
	day := model.DateOf(asOf)
	if day.Before(first) {
		return fmt.Errorf("%w: %s is before earliest data %s", ErrInvalidDateRange, day.Format(dateLayout), first.Format(dateLayout))
	}
	if day.After(last) {
		return fmt.Errorf("%w: %s is after latest data %s", ErrInvalidDateRange, day.Format(dateLayout), last.Format(dateLayout))
	}
	return nil
}

// Label renders a grid cell as "1M × 2Y".
func Label(key model.VolKey) string {
	return fmt.Sprintf("%s × %dY", key.Expiry, key.Tenor)
}

// joinRealized returns the realized vols of tenor, or NaN for every window when the tenor has
// no realized metrics.
func joinRealized(realized map[int][]model.RealizedVol, tenor int, windows []int) []model.RealizedVol {
	out := make([]model.RealizedVol, 0, len(windows))
	if vols, ok := realized[tenor]; ok {
		return append(out, vols...)
	}
	for _, w := range windows {
		out = append(out, model.RealizedVol{Window: w, Vol: math.NaN()})
	}
	return out
}
