// Package timewindow narrows a time series to a recency window chosen by its
// interval class.
package timewindow

import (
	"slices"
	"strings"
	"time"

	"marketwatch/internal/market"
)

// DateLayout is the yyyy-MM-dd layout of series dates.
const DateLayout = "2006-01-02"

// Interval classes with a dedicated lookback.
const (
	Daily   = "daily"
	Weekly  = "weekly"
	Monthly = "monthly"
)

// Cutoff returns the earliest instant a point must be strictly after to stay
// in the window for interval, relative to now.
//
//	daily   -> 7 days
//	weekly  -> 10 weeks
//	monthly -> 1 year
//	other   -> 2 years
func Cutoff(interval string, now time.Time) time.Time {
	switch strings.ToLower(strings.TrimSpace(interval)) {
	case Daily:
		return now.AddDate(0, 0, -7)
	case Weekly:
		return now.AddDate(0, 0, -7*10)
	case Monthly:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(-2, 0, 0)
	}
}

// Filter keeps the points dated strictly after the cutoff for interval and
// returns them sorted ascending by date. Points whose date does not parse are
// dropped. The input is not modified.
func Filter(points []market.RawPoint, interval string, now time.Time) []market.RawPoint {
	cutoff := Cutoff(interval, now)
	out := make([]market.RawPoint, 0, len(points))
	for _, p := range points {
		d, err := time.ParseInLocation(DateLayout, p.Date, now.Location())
		if err != nil {
			continue
		}
		if d.After(cutoff) {
			out = append(out, p)
		}
	}
	// yyyy-MM-dd sorts lexicographically in date order.
	slices.SortStableFunc(out, func(a, b market.RawPoint) int {
		return strings.Compare(a.Date, b.Date)
	})
	return out
}
