package donation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxMinorUnits is the largest single charge the processor accepts.
const MaxMinorUnits int64 = 99_999_999

// ToMinorUnits converts an amount in whole currency units to the processor's
// integer minor units: round(amount * 100), halves rounded away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits for amounts with at most two
// decimal digits.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// NormalizeCurrency upper-cases an ISO 4217 code, falling back to home when
// the processor did not report one.
func NormalizeCurrency(code, home string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return strings.ToUpper(home)
	}
	return code
}
