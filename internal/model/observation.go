package model

import "time"

// VolObservation is one annualized bp normal vol quote for an expiry x tenor cell.
type VolObservation struct {
	Date   time.Time `json:"date"`
	Expiry string    `json:"expiry"`
	Tenor  int       `json:"tenor"`
	Vol    float64   `json:"vol"`
}

// Key returns the grid cell the observation belongs to.
func (o VolObservation) Key() VolKey {
	return VolKey{Expiry: o.Expiry, Tenor: o.Tenor}
}

// RateObservation is one swap rate fixing for a tenor.
type RateObservation struct {
	Date  time.Time `json:"date"`
	Tenor int       `json:"tenor"`
	Rate  float64   `json:"rate"`
}

// VolKey identifies an implied vol instrument.
type VolKey struct {
	Expiry string
	Tenor  int
}

// Point is a dated value in a Series.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is a date ascending history for one instrument.
type Series []Point

// Values returns the series values in date order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Last returns the most recent point.
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
