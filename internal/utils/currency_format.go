package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatWithPrecision formats an amount with the given precision
// Example: 12.3456 with precision 2 returns "12.35"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}

// DisplayAmount renders amount for humans using the ISO symbol and minor units of code,
// e.g. 1234.5 USD returns "$1,234.50" and 1234.5 JPY returns "¥1,235".
// Codes unknown to the ISO table fall back to "<amount> <code>" with two decimals.
func DisplayAmount(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return FormatWithPrecision(amount, 2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}
