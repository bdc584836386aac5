package entity

import (
	"fmt"
	"time"

	"github.com/jptremblay/patrimoine/pkg/datetime"
	"github.com/jptremblay/patrimoine/pkg/loans"
)

// Loan is an amortizing liability with a fixed monthly payment computed once
// at construction. Its future value is the negated remaining balance; its
// cash flow is the negated payment for every month in the activity window.
//
// The window defaults to exactly the nominal term (start plus term-1
// months), so a term-month loan produces term payment months. The remaining
// balance is evaluated independently through the closed-form annuity
// identity and clamps at zero; near term end the two can disagree by
// rounding, which mirrors the reference behavior.
type Loan struct {
	name                string
	principal           float64
	annualInterestRate  float64
	termMonths          int
	annualInflationRate float64
	payment             float64
	window              Window
}

// NewLoan builds a loan originating at start. A zero end date defaults the
// activity window to the nominal term. The annualInflationRate is accepted
// for configuration compatibility but does not affect the reported value.
func NewLoan(name string, principal, annualInterestRate float64, termMonths int, annualInflationRate float64, start, end time.Time) (*Loan, error) {
	if termMonths <= 0 {
		return nil, fmt.Errorf("loan %s: term must be a positive number of months, got %d", name, termMonths)
	}
	if principal < 0 {
		return nil, fmt.Errorf("loan %s: principal must not be negative, got %.2f", name, principal)
	}
	if end.IsZero() {
		end = datetime.AddMonths(start, termMonths-1)
	}

	return &Loan{
		name:                name,
		principal:           principal,
		annualInterestRate:  annualInterestRate,
		termMonths:          termMonths,
		annualInflationRate: annualInflationRate,
		payment:             loans.MonthlyPayment(principal, annualInterestRate, termMonths),
		window:              NewWindow(start, end),
	}, nil
}

// Name implements Entity.
func (l *Loan) Name() string {
	return l.name
}

// ActiveOn implements Entity.
func (l *Loan) ActiveOn(date time.Time) bool {
	return l.window.Contains(date)
}

// MonthlyPayment returns the fixed payment computed at construction.
func (l *Loan) MonthlyPayment() float64 {
	return l.payment
}

// RemainingBalanceAt returns the outstanding principal as of the date,
// clamped at zero and monotonically non-increasing over the term.
func (l *Loan) RemainingBalanceAt(date time.Time) float64 {
	elapsed := datetime.MonthsBetween(l.window.Start, date)
	return loans.RemainingBalance(l.principal, l.annualInterestRate, l.termMonths, elapsed)
}

// PrincipalPaidBy returns the cumulative principal repaid through the date.
func (l *Loan) PrincipalPaidBy(date time.Time) float64 {
	elapsed := datetime.MonthsBetween(l.window.Start, date)
	return loans.PrincipalPaid(l.principal, l.annualInterestRate, l.termMonths, elapsed)
}

// InterestPaidBy returns the cumulative interest paid through the date.
func (l *Loan) InterestPaidBy(date time.Time) float64 {
	elapsed := datetime.MonthsBetween(l.window.Start, date)
	return loans.InterestPaid(l.principal, l.annualInterestRate, l.termMonths, elapsed)
}

// FutureValueAt reports the loan as a liability: the negated remaining
// balance, or 0 outside the activity window.
func (l *Loan) FutureValueAt(date time.Time) float64 {
	if !l.ActiveOn(date) {
		return 0
	}
	return -l.RemainingBalanceAt(date)
}

// MonthlyCashFlowAt reports the negated fixed payment for every month
// inside the activity window.
func (l *Loan) MonthlyCashFlowAt(date time.Time) float64 {
	if !l.ActiveOn(date) {
		return 0
	}
	return -l.payment
}
