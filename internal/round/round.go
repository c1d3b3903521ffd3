package round

import (
	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of decimals kept for monetary amounts.
	MoneyScale int32 = 2
	// RateScale is the number of decimals kept for exchange rates.
	RateScale int32 = 6
)

// To rounds d half away from zero to the given number of decimals.
// 0.615 rounds to 0.62 and -0.615 to -0.62.
func To(d decimal.Decimal, scale int32) decimal.Decimal {
	return d.Round(scale)
}

// Money rounds d to MoneyScale.
func Money(d decimal.Decimal) decimal.Decimal {
	return To(d, MoneyScale)
}

// Fixed renders d with exactly MoneyScale decimals, e.g. "125.00".
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
