package money

import (
	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used when deciding whether two monetary amounts are
// equal. Postings are rounded to two decimal places before they are persisted,
// so any residual larger than a cent indicates a real imbalance.
var Epsilon = decimal.NewFromFloat(0.01)

// Round normalizes an amount to two decimal places (banker's currency scale).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Equal reports whether a and b are equal within Epsilon.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Epsilon)
}

// IsZero reports whether d is zero within Epsilon.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(Epsilon)
}

// ToMinorUnits converts an amount to its smallest currency unit (cents).
// Amounts are rounded to two decimal places first, so the conversion is exact.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FromMinorUnits converts a cent amount back to a decimal currency amount.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
