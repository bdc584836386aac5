// Package growth provides the monthly-compounded growth model shared by
// every financial entity.
package growth

import (
	"math"

	"github.com/jptremblay/patrimoine/pkg/constants"
)

// MonthlyRate converts an annual percentage rate to the periodic monthly
// rate, i.e. rate/1200.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// FutureValue grows a principal at a monthly-compounded annual percentage
// rate over the given number of whole months.
//
// A zero rate returns the principal exactly rather than going through the
// power computation, so repeated evaluation cannot introduce rounding drift.
// Negative elapsed months are clamped to zero: a value evaluated before its
// start date reports the unchanged principal.
func FutureValue(principal, annualRatePercent float64, months int) float64 {
	if annualRatePercent == 0 {
		return principal
	}
	if months < 0 {
		months = 0
	}
	return principal * math.Pow(1.00+MonthlyRate(annualRatePercent), float64(months))
}
