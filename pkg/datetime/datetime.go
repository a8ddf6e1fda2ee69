// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/iwvelando/deal-settlement/pkg/constants"
)

const (
	// DateTimeLayout is the format expected for dates in config and deal files
	// and is also the output date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a date string in the standard layout.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateTimeLayout, dateStr)
}

// DaysBetween returns the number of whole calendar days from the first date to
// the second. The result is negative when the second date precedes the first.
func DaysBetween(from, to time.Time) int {
	fromDay := truncateToDay(from)
	toDay := truncateToDay(to)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// truncateToDay normalizes a timestamp to midnight UTC so that day arithmetic
// is insensitive to time-of-day and timezone offsets.
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
