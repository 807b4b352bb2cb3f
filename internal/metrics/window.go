// Package metrics computes the report-view numbers from the reconciled
// dataset. Every function here is pure: same inputs, same outputs, no
// state carried between calls.
package metrics

import "time"

// Window is an inclusive [From, To] date range. A zero bound means
// unbounded on that side.
type Window struct {
	From time.Time
	To   time.Time
}

// Lifetime is the unbounded window.
var Lifetime = Window{}

// Contains reports whether an event date falls inside the window.
// Events with an unparseable (nil) date are excluded from every
// date-windowed computation rather than defaulted into a period.
func (w Window) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// MonthsInWindow counts the whole months spanned by the window,
// inclusive of both endpoints' months. Jan 1 to Mar 31 is 3 months;
// Dec 1 to Feb 28 of the next year is also 3.
func MonthsInWindow(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	if months < 0 {
		return 0
	}
	return months
}
