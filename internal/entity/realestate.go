package entity

import (
	"fmt"
	"time"

	"github.com/jptremblay/patrimoine/pkg/datetime"
	"github.com/jptremblay/patrimoine/pkg/growth"
)

// RealEstate is an appreciating asset composed with the entities it owns:
// at most one loan plus any number of one-shot acquisition costs and
// recurring income/expense items (taxes, maintenance, rent).
//
// The composite holds no cash-flow state of its own; all cash flow is
// delegated to the owned entities. Its value is the appreciated acquisition
// value plus the owned loan's negative value, i.e. the equity position.
// Ownership is one level deep.
type RealEstate struct {
	name                 string
	acquisitionValue     float64
	annualExpectedReturn float64
	cashdown             float64
	window               Window
	loan                 *Loan
	owned                map[string]Entity
}

// NewRealEstate builds a composite acquired on the given date. The loan may
// be nil. Owned entity names must be unique; a duplicate is a configuration
// error.
func NewRealEstate(name string, acquisitionValue, annualExpectedReturn, cashdown float64, acquisitionDate time.Time, loan *Loan, items ...Entity) (*RealEstate, error) {
	r := &RealEstate{
		name:                 name,
		acquisitionValue:     acquisitionValue,
		annualExpectedReturn: annualExpectedReturn,
		cashdown:             cashdown,
		window:               NewWindow(acquisitionDate, time.Time{}),
		loan:                 loan,
		owned:                make(map[string]Entity),
	}

	if loan != nil {
		if err := r.addOwned(loan); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		if err := r.addOwned(item); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *RealEstate) addOwned(e Entity) error {
	if _, exists := r.owned[e.Name()]; exists {
		return fmt.Errorf("real estate %s: owned entity %q already exists", r.name, e.Name())
	}
	r.owned[e.Name()] = e
	return nil
}

// Name implements Entity.
func (r *RealEstate) Name() string {
	return r.name
}

// Cashdown returns the cash invested at acquisition.
func (r *RealEstate) Cashdown() float64 {
	return r.cashdown
}

// Loan returns the owned loan, or nil.
func (r *RealEstate) Loan() *Loan {
	return r.loan
}

// ActiveOn implements Entity.
func (r *RealEstate) ActiveOn(date time.Time) bool {
	return r.window.Contains(date)
}

// FutureValueAt returns the appreciated property value plus the owned
// loan's future value. The loan contributes a negative number, netting the
// gross value down to equity; once the loan amortizes to zero the composite
// converges to pure appreciation.
func (r *RealEstate) FutureValueAt(date time.Time) float64 {
	if !r.ActiveOn(date) {
		return 0
	}
	months := datetime.MonthsBetween(r.window.Start, date)
	value := growth.FutureValue(r.acquisitionValue, r.annualExpectedReturn, months)
	if r.loan != nil {
		value += r.loan.FutureValueAt(date)
	}
	return value
}

// MonthlyCashFlowAt sums the monthly cash flow of every owned entity; the
// composite itself contributes nothing directly.
func (r *RealEstate) MonthlyCashFlowAt(date time.Time) float64 {
	if !r.ActiveOn(date) {
		return 0
	}
	total := 0.0
	for _, e := range r.owned {
		total += e.MonthlyCashFlowAt(date)
	}
	return total
}
