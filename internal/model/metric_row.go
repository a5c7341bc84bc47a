package model

import (
	"encoding/json"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// ImpliedLevels holds the implied vol statistics of one row in a single unit.
// Undefined values are NaN.
type ImpliedLevels struct {
	Current  float64
	Change1D float64
	Change1W float64
	Change1M float64
	High     float64
	Low      float64
}

// Scale returns the levels multiplied by factor. NaN stays NaN.
func (l ImpliedLevels) Scale(factor float64) ImpliedLevels {
	return ImpliedLevels{
		Current:  l.Current * factor,
		Change1D: l.Change1D * factor,
		Change1W: l.Change1W * factor,
		Change1M: l.Change1M * factor,
		High:     l.High * factor,
		Low:      l.Low * factor,
	}
}

// MarshalJSON encodes NaN fields as null.
func (l ImpliedLevels) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Current  *float64 `json:"current"`
		Change1D *float64 `json:"chg_1d"`
		Change1W *float64 `json:"chg_1w"`
		Change1M *float64 `json:"chg_1m"`
		High     *float64 `json:"high_20d"`
		Low      *float64 `json:"low_20d"`
	}{
		Current:  Optional(l.Current),
		Change1D: Optional(l.Change1D),
		Change1W: Optional(l.Change1W),
		Change1M: Optional(l.Change1M),
		High:     Optional(l.High),
		Low:      Optional(l.Low),
	})
}

// RealizedVol is the realized vol of a tenor over one rolling window.
type RealizedVol struct {
	Window int
	Vol    float64
}

// MarshalJSON encodes an undefined Vol as null.
func (r RealizedVol) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Window int      `json:"window"`
		Vol    *float64 `json:"vol"`
	}{Window: r.Window, Vol: Optional(r.Vol)})
}

// MoverFlags marks a row whose current change is the largest in its own recent history.
type MoverFlags struct {
	OneDay   bool `json:"largest_1d"`
	OneWeek  bool `json:"largest_1w"`
	OneMonth bool `json:"largest_1m"`
}

// Any reports whether at least one flag is set.
func (m MoverFlags) Any() bool {
	return m.OneDay || m.OneWeek || m.OneMonth
}

// MetricRow is one grid cell of the swaption vol table.
type MetricRow struct {
	Expiry     string        `json:"expiry"`
	Tenor      int           `json:"tenor"`
	Label      string        `json:"label"`
	AsOf       time.Time     `json:"as_of"`
	ObservedAt time.Time     `json:"observed_at"`
	Annualized ImpliedLevels `json:"implied_annualized"`
	Daily      ImpliedLevels `json:"implied_daily"`
	Realized   []RealizedVol `json:"realized"`
	ZScore     float64       `json:"zscore"`
	Movers     MoverFlags    `json:"movers"`
}

// RealizedFor returns the realized vol for window, NaN when absent.
func (r MetricRow) RealizedFor(window int) float64 {
	for _, rv := range r.Realized {
		if rv.Window == window {
			return rv.Vol
		}
	}
	return math.NaN()
}

// MarshalJSON renders dates as YYYY-MM-DD and NaN as null.
func (r MetricRow) MarshalJSON() ([]byte, error) {
	type Alias MetricRow
	return json.Marshal(struct {
		Alias
		AsOf       string   `json:"as_of"`
		ObservedAt string   `json:"observed_at"`
		ZScore     *float64 `json:"zscore"`
	}{
		Alias:      Alias(r),
		AsOf:       r.AsOf.Format(dateLayout),
		ObservedAt: r.ObservedAt.Format(dateLayout),
		ZScore:     Optional(r.ZScore),
	})
}

// Optional maps NaN and infinities to nil.
func Optional(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
