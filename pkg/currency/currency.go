// Package currency provides currency rounding and comparison utilities.
package currency

import (
	"math"

	"github.com/iwvelando/deal-settlement/pkg/constants"
	"github.com/shopspring/decimal"
)

// RoundTo rounds a value half-up to the given number of decimal places. The
// rounding itself happens in decimal arithmetic so that values sitting exactly
// on the midpoint do not drift from binary float representation.
func RoundTo(val float64, places int32) float64 {
	rounded, _ := decimal.NewFromFloat(val).Round(places).Float64()
	return rounded
}

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return RoundTo(val, constants.DefaultRoundingPrecision)
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// PercentageOf calculates what percentage value is of total
func PercentageOf(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
