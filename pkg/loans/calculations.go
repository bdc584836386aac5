// Package loans provides annuity and amortization calculations for
// fixed-rate loans.
//
// Balances and cumulative splits use the closed-form annuity identities
// rather than walking the schedule month by month, so evaluation at an
// arbitrary date is O(1). The closed forms agree with the per-period
// decomposition to rounding tolerance.
package loans

import (
	"math"

	"github.com/jptremblay/patrimoine/pkg/growth"
)

// MonthlyPayment calculates the fixed monthly payment for a loan using the
// standard annuity formula. For zero interest the principal is simply
// divided by the term.
func MonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		return principal / float64(termMonths)
	}

	rate := growth.MonthlyRate(annualInterestRate)
	power := math.Pow(1.00+rate, float64(termMonths))
	return principal * rate * power / (power - 1.00)
}

// RemainingBalance returns the outstanding principal after monthsElapsed
// periods, via the future-value-of-annuity identity:
//
//	balance = principal*(1+r)^k - payment*((1+r)^k - 1)/r
//
// The result is clamped to zero once the schedule would go negative; a loan
// never reports a negative balance.
func RemainingBalance(principal, annualInterestRate float64, termMonths, monthsElapsed int) float64 {
	if monthsElapsed <= 0 {
		return principal
	}

	payment := MonthlyPayment(principal, annualInterestRate, termMonths)
	var balance float64
	if annualInterestRate == 0 {
		balance = principal - payment*float64(monthsElapsed)
	} else {
		rate := growth.MonthlyRate(annualInterestRate)
		power := math.Pow(1.00+rate, float64(monthsElapsed))
		balance = principal*power - payment*(power-1.00)/rate
	}

	if balance < 0 {
		return 0
	}
	return balance
}

// PrincipalPaid returns the cumulative principal repaid through
// monthsElapsed periods, capped at the original principal.
func PrincipalPaid(principal, annualInterestRate float64, termMonths, monthsElapsed int) float64 {
	if monthsElapsed <= 0 {
		return 0
	}
	return principal - RemainingBalance(principal, annualInterestRate, termMonths, monthsElapsed)
}

// InterestPaid returns the cumulative interest paid through monthsElapsed
// periods: total payments made minus principal repaid. Periods beyond the
// nominal term contribute no further interest.
func InterestPaid(principal, annualInterestRate float64, termMonths, monthsElapsed int) float64 {
	if monthsElapsed <= 0 {
		return 0
	}
	if monthsElapsed > termMonths {
		monthsElapsed = termMonths
	}

	payment := MonthlyPayment(principal, annualInterestRate, termMonths)
	return payment*float64(monthsElapsed) - PrincipalPaid(principal, annualInterestRate, termMonths, monthsElapsed)
}

// PaymentSplit decomposes payment number period (1-based) into its principal
// and interest portions: interest accrues on the balance before the payment
// and the remainder reduces principal.
func PaymentSplit(principal, annualInterestRate float64, termMonths, period int) (principalPart, interestPart float64) {
	if period < 1 || period > termMonths {
		return 0, 0
	}

	payment := MonthlyPayment(principal, annualInterestRate, termMonths)
	balanceBefore := RemainingBalance(principal, annualInterestRate, termMonths, period-1)
	interestPart = balanceBefore * growth.MonthlyRate(annualInterestRate)
	principalPart = payment - interestPart
	return principalPart, interestPart
}
