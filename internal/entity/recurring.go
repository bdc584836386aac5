package entity

import (
	"time"

	"github.com/jptremblay/patrimoine/pkg/datetime"
	"github.com/jptremblay/patrimoine/pkg/growth"
)

// RecurringItem is a fixed or inflation-adjusted monthly amount. Positive
// amounts are income, negative amounts are expenses. A one-shot item is a
// recurring item whose window spans a single month.
type RecurringItem struct {
	name             string
	baseAmount       float64
	annualGrowthRate float64
	window           Window
}

// NewRecurringItem builds a recurring item active over [start, end]. A zero
// end date means open-ended.
func NewRecurringItem(name string, baseAmount, annualGrowthRate float64, start, end time.Time) *RecurringItem {
	return &RecurringItem{
		name:             name,
		baseAmount:       baseAmount,
		annualGrowthRate: annualGrowthRate,
		window:           NewWindow(start, end),
	}
}

// NewOneShot builds an item that contributes its amount in a single month.
func NewOneShot(name string, amount float64, date time.Time) *RecurringItem {
	return NewRecurringItem(name, amount, 0, date, date)
}

// Name implements Entity.
func (r *RecurringItem) Name() string {
	return r.name
}

// ActiveOn implements Entity.
func (r *RecurringItem) ActiveOn(date time.Time) bool {
	return r.window.Contains(date)
}

// FutureValueAt returns the base amount grown at the item's annual rate for
// the whole months elapsed since the window start. With a zero growth rate
// the value is exactly the base amount everywhere inside the window.
func (r *RecurringItem) FutureValueAt(date time.Time) float64 {
	if !r.ActiveOn(date) {
		return 0
	}
	months := datetime.MonthsBetween(r.window.Start, date)
	return growth.FutureValue(r.baseAmount, r.annualGrowthRate, months)
}

// MonthlyCashFlowAt returns the same inflation-adjusted amount as
// FutureValueAt: a recurring item's monthly contribution is its value.
func (r *RecurringItem) MonthlyCashFlowAt(date time.Time) float64 {
	return r.FutureValueAt(date)
}
