package model

import "time"

// Universe is the full set of raw observations a table is built from.
type Universe struct {
	Vol   []VolObservation  `json:"vol"`
	Rates []RateObservation `json:"rates"`
}

// DateRange returns the first and last implied vol dates.
func (u Universe) DateRange() (time.Time, time.Time, bool) {
	return VolDateRange(u.Vol)
}

// VolDateRange returns the min and max date of the observations.
func VolDateRange(obs []VolObservation) (time.Time, time.Time, bool) {
	if len(obs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first := DateOf(obs[0].Date)
	last := first
	for _, o := range obs[1:] {
		d := DateOf(o.Date)
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	return first, last, true
}
