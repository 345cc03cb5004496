package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
// All derived financial figures in the engine go through this so that
// aggregates stay comparable regardless of which path produced them.
func Round2(value float64) float64 {
	out, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return out
}

// Ratio divides numerator by denominator and rounds to 2 decimal places.
// Returns nil when the denominator is zero: a section with no alive or sold
// chicks has no meaningful per-unit figure, and reporting 0 would misread as
// "free".
func Ratio(numerator float64, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	v := Round2(numerator / denominator)
	return &v
}

// Percentage returns part as a percentage of total, rounded to 2 decimal
// places. A zero total yields 0, never NaN.
func Percentage(part float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	return Round2(part / total * 100)
}

// Mul multiplies monetary factors with decimal precision and rounds the
// product to 2 decimal places.
func Mul(factors ...float64) float64 {
	out := decimal.NewFromInt(1)
	for _, f := range factors {
		out = out.Mul(decimal.NewFromFloat(f))
	}
	rounded, _ := out.Round(2).Float64()
	return rounded
}
