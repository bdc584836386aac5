package entity

import (
	"time"

	"github.com/jptremblay/patrimoine/pkg/datetime"
	"github.com/jptremblay/patrimoine/pkg/growth"
)

// BankAccount is the liquidity buffer of the simulation. Its balance is
// ground truth as of a reference date; reads compound forward from there.
// The value is immutable: the driver advances the account once per period by
// constructing a replacement via WithBalance, never by mutation.
type BankAccount struct {
	name               string
	balance            float64
	annualInterestRate float64
	asOf               time.Time
	window             Window
}

// NewBankAccount builds an account whose balance is ground truth at asOf.
func NewBankAccount(name string, balance, annualInterestRate float64, asOf time.Time) *BankAccount {
	return &BankAccount{
		name:               name,
		balance:            balance,
		annualInterestRate: annualInterestRate,
		asOf:               asOf,
		window:             NewWindow(asOf, time.Time{}),
	}
}

// WithBalance returns a new account carrying the given balance as ground
// truth at asOf. The original window start is preserved.
func (b *BankAccount) WithBalance(balance float64, asOf time.Time) *BankAccount {
	return &BankAccount{
		name:               b.name,
		balance:            balance,
		annualInterestRate: b.annualInterestRate,
		asOf:               asOf,
		window:             b.window,
	}
}

// Name implements Entity.
func (b *BankAccount) Name() string {
	return b.name
}

// Balance returns the balance at the reference date.
func (b *BankAccount) Balance() float64 {
	return b.balance
}

// AsOf returns the date at which the balance is ground truth.
func (b *BankAccount) AsOf() time.Time {
	return b.asOf
}

// ActiveOn implements Entity.
func (b *BankAccount) ActiveOn(date time.Time) bool {
	return b.window.Contains(date)
}

// FutureValueAt compounds the balance forward from the reference date at
// the account's annual interest rate.
func (b *BankAccount) FutureValueAt(date time.Time) float64 {
	if !b.ActiveOn(date) {
		return 0
	}
	months := datetime.MonthsBetween(b.asOf, date)
	return growth.FutureValue(b.balance, b.annualInterestRate, months)
}

// MonthlyCashFlowAt is always zero: the account absorbs cash flow, it does
// not generate any.
func (b *BankAccount) MonthlyCashFlowAt(date time.Time) float64 {
	return 0
}
