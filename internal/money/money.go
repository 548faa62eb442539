// Package money wraps shopspring/decimal with the small set of helpers
// the extraction and audit code needs for BRL amounts.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromString parses a decimal from invoice text. Surrounding whitespace
// is tolerated; NFe numeric fields use '.' as the decimal separator.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// FromStringOrZero parses a decimal, substituting zero on failure.
// The bool reports whether the parse succeeded.
func FromStringOrZero(s string) (decimal.Decimal, bool) {
	d, err := FromString(s)
	if err != nil {
		return Zero, false
	}
	return d, true
}

// FromFloat creates a decimal from a float, rounded to 2 places.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Mul multiplies two decimals, rounded to 2 places.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(2)
}

// Sum sums a slice of decimals.
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// WithinTolerance reports whether |a-b| <= tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// DefaultTolerance is the arithmetic-consistency tolerance used when the
// caller supplies none: one centavo.
var DefaultTolerance = decimal.New(1, -2)
