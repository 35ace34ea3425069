// Package money converts between integer cents and decimal amounts.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FromCents converts cents into a decimal dollar amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}

// Format renders cents as a dollar string with two decimals, e.g. "$13.50".
func Format(cents int64) string {
	amount := FromCents(cents)
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// ParseCents parses a non-negative amount such as "2.50" or "$1" into cents.
// More than two decimal places is rejected rather than rounded.
func ParseCents(raw string) (int64, error) {
	value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if value == "" {
		return 0, fmt.Errorf("amount is required")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("amount %q must not be negative", raw)
	}
	cents := amount.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than two decimal places", raw)
	}
	return cents.IntPart(), nil
}

// Ratio returns part/whole as a decimal rounded to four places, or zero when whole is zero.
func Ratio(part, whole int64) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).DivRound(decimal.NewFromInt(whole), 4)
}
