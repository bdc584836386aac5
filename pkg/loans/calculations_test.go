package loans

import (
	"testing"

	"github.com/jptremblay/patrimoine/pkg/mathutil"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		term      int
		expected  float64
	}{
		{
			name:      "Standard 30-year mortgage",
			principal: 100000.0,
			rate:      6.0,
			term:      360,
			expected:  599.55,
		},
		{
			name:      "Zero interest divides evenly",
			principal: 12000.0,
			rate:      0.0,
			term:      12,
			expected:  1000.0,
		},
		{
			name:      "Short term loan",
			principal: 10000.0,
			rate:      5.0,
			term:      60,
			expected:  188.71,
		},
		{
			name:      "Zero term",
			principal: 10000.0,
			rate:      5.0,
			term:      0,
			expected:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyPayment(tt.principal, tt.rate, tt.term)
			if !mathutil.WithinTolerance(got, tt.expected, 0.01) {
				t.Errorf("MonthlyPayment() = %.4f, expected %.2f", got, tt.expected)
			}
		})
	}
}

func TestRemainingBalance(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  int
		expected float64
	}{
		{name: "At origination", elapsed: 0, expected: 100000.0},
		{name: "After one payment", elapsed: 1, expected: 99900.45},
		{name: "Fully amortized at term", elapsed: 360, expected: 0.0},
		{name: "Clamped past term", elapsed: 400, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemainingBalance(100000.0, 6.0, 360, tt.elapsed)
			if !mathutil.WithinTolerance(got, tt.expected, 0.01) {
				t.Errorf("RemainingBalance() = %.4f, expected %.2f", got, tt.expected)
			}
		})
	}
}

func TestRemainingBalanceMonotone(t *testing.T) {
	previous := RemainingBalance(250000.0, 4.5, 300, 0)
	for k := 1; k <= 300; k++ {
		current := RemainingBalance(250000.0, 4.5, 300, k)
		if current > previous {
			t.Fatalf("balance increased at month %d: %.4f > %.4f", k, current, previous)
		}
		previous = current
	}
	if !mathutil.IsZero(previous) {
		t.Errorf("balance at term = %.4f, expected 0", previous)
	}
}

func TestRemainingBalanceZeroRate(t *testing.T) {
	if got := RemainingBalance(12000.0, 0.0, 12, 5); got != 7000.0 {
		t.Errorf("RemainingBalance() = %.4f, expected 7000.00", got)
	}
}

func TestPrincipalPaid(t *testing.T) {
	// Cumulative principal at term equals the full principal.
	got := PrincipalPaid(100000.0, 6.0, 360, 360)
	if !mathutil.WithinTolerance(got, 100000.0, 0.01) {
		t.Errorf("PrincipalPaid() at term = %.4f, expected 100000.00", got)
	}

	// Past term it stays capped.
	got = PrincipalPaid(100000.0, 6.0, 360, 420)
	if !mathutil.WithinTolerance(got, 100000.0, 0.01) {
		t.Errorf("PrincipalPaid() past term = %.4f, expected 100000.00", got)
	}

	if got := PrincipalPaid(100000.0, 6.0, 360, 0); got != 0.0 {
		t.Errorf("PrincipalPaid() at origination = %.4f, expected 0", got)
	}
}

func TestInterestPaid(t *testing.T) {
	// Total interest over the life of the loan is total payments minus
	// principal.
	payment := MonthlyPayment(100000.0, 6.0, 360)
	expected := payment*360.0 - 100000.0
	got := InterestPaid(100000.0, 6.0, 360, 360)
	if !mathutil.WithinTolerance(got, expected, 1.0) {
		t.Errorf("InterestPaid() at term = %.2f, expected %.2f", got, expected)
	}

	// Periods past the term accrue nothing further.
	if past := InterestPaid(100000.0, 6.0, 360, 400); !mathutil.WithinTolerance(past, got, 0.01) {
		t.Errorf("InterestPaid() past term = %.2f, expected %.2f", past, got)
	}

	if got := InterestPaid(12000.0, 0.0, 12, 12); got != 0.0 {
		t.Errorf("InterestPaid() on zero-rate loan = %.4f, expected 0", got)
	}
}

func TestPaymentSplit(t *testing.T) {
	principal, rate, term := 100000.0, 6.0, 360
	payment := MonthlyPayment(principal, rate, term)

	// Every period's split sums back to the fixed payment.
	for _, period := range []int{1, 2, 120, 359, 360} {
		principalPart, interestPart := PaymentSplit(principal, rate, term, period)
		if !mathutil.WithinTolerance(principalPart+interestPart, payment, 0.01) {
			t.Errorf("period %d: split %.4f + %.4f != payment %.4f",
				period, principalPart, interestPart, payment)
		}
	}

	// First period interest is balance * monthly rate.
	_, interestPart := PaymentSplit(principal, rate, term, 1)
	if !mathutil.WithinTolerance(interestPart, 500.0, 0.01) {
		t.Errorf("first period interest = %.4f, expected 500.00", interestPart)
	}

	// Out-of-range periods contribute nothing.
	if p, i := PaymentSplit(principal, rate, term, 0); p != 0 || i != 0 {
		t.Errorf("PaymentSplit(period=0) = (%.2f, %.2f), expected zeros", p, i)
	}
	if p, i := PaymentSplit(principal, rate, term, 361); p != 0 || i != 0 {
		t.Errorf("PaymentSplit(period=361) = (%.2f, %.2f), expected zeros", p, i)
	}
}

func TestSplitsAgreeWithClosedForm(t *testing.T) {
	// Summing the per-period decomposition must agree with the closed-form
	// cumulative values to rounding tolerance.
	principal, rate, term := 50000.0, 7.25, 120

	var sumPrincipal, sumInterest float64
	for period := 1; period <= term; period++ {
		p, i := PaymentSplit(principal, rate, term, period)
		sumPrincipal += p
		sumInterest += i
	}

	if closed := PrincipalPaid(principal, rate, term, term); !mathutil.WithinTolerance(sumPrincipal, closed, 0.05) {
		t.Errorf("summed principal %.4f disagrees with closed form %.4f", sumPrincipal, closed)
	}
	if closed := InterestPaid(principal, rate, term, term); !mathutil.WithinTolerance(sumInterest, closed, 0.05) {
		t.Errorf("summed interest %.4f disagrees with closed form %.4f", sumInterest, closed)
	}
}
