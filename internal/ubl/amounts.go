package ubl

import "github.com/shopspring/decimal"

// RoundAmount applies the single presentation rounding rule: half-up to two
// fractional digits. Intermediate accumulation stays unrounded.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatAmount renders a monetary or quantity value with exactly two
// fractional digits, half-up.
func FormatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
