// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/jptremblay/patrimoine/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// OpenEnded returns the sentinel date used for entities with no end date.
func OpenEnded() time.Time {
	return MustParseDate(constants.OpenEndedDate)
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateTimeLayout, date)
}

// MustParseDate parses a date string and panics on error. This is intended
// for use in tests and for compile-time constants known to be valid.
func MustParseDate(date string) time.Time {
	t, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDate renders a time as an ISO-8601 calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// MonthsBetween returns the whole-month difference between two calendar
// dates: (year2-year1)*12 + (month2-month1). The day of month is never
// consulted, so a date on the 31st evaluated on the 1st of a later month
// still counts full months.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*constants.MonthsPerYear + int(to.Month()) - int(from.Month())
}

// AddMonths returns the date offset by the given number of calendar months.
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}
