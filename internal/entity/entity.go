// Package entity defines the financial instruments the simulation operates
// on. Every instrument satisfies the same contract: it has an inclusive
// activity window, a signed future value on a date, and a signed monthly
// cash flow on a date. Outside the window both valuations are exactly zero.
package entity

import (
	"time"

	"github.com/jptremblay/patrimoine/pkg/datetime"
)

// Entity is the contract every financial instrument satisfies.
type Entity interface {
	// Name uniquely identifies the entity within a registry.
	Name() string

	// ActiveOn reports whether the date falls inside the entity's
	// activity window, inclusive on both ends.
	ActiveOn(date time.Time) bool

	// FutureValueAt returns the signed amount the entity contributes to
	// net worth as of the date, or 0 when inactive.
	FutureValueAt(date time.Time) float64

	// MonthlyCashFlowAt returns the signed amount the entity contributes
	// to liquid cash flow in the period containing the date, or 0 when
	// inactive.
	MonthlyCashFlowAt(date time.Time) float64
}

// Window is an inclusive [start, end] activity range. Comparisons are made
// on calendar dates, never on formatted strings.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window, substituting the open-ended sentinel for a zero
// end date.
func NewWindow(start, end time.Time) Window {
	if end.IsZero() {
		end = datetime.OpenEnded()
	}
	return Window{Start: start, End: end}
}

// Contains reports whether the date lies inside the window, inclusive on
// both ends.
func (w Window) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}
