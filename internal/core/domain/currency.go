package domain

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode  string `json:"currencyCode"`  // Primary Key (e.g., "USD")
	Symbol        string `json:"symbol"`        // e.g., "$"
	Name          string `json:"name"`          // e.g., "US Dollar"
	DecimalPlaces int    `json:"decimalPlaces"` // display/rounding precision, never negative
	IsActive      bool   `json:"isActive"`
	AuditFields
}

// NormalizeCode upper-cases and trims a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code looks like a currency code: 3 to 5 upper-case
// letters or digits, so crypto tickers such as USDT pass alongside ISO codes.
func ValidCode(code string) bool {
	if len(code) < 3 || len(code) > 5 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

var defaultCurrencyNames = []struct {
	code string
	name string
}{
	{"USD", "US Dollar"},
	{"EUR", "Euro"},
	{"GBP", "British Pound"},
	{"JPY", "Japanese Yen"},
	{"NPR", "Nepalese Rupee"},
	{"INR", "Indian Rupee"},
}

// DefaultCurrencies is the built-in set served when the catalog has never been reachable.
func DefaultCurrencies() []Currency {
	out := make([]Currency, 0, len(defaultCurrencyNames))
	for _, c := range defaultCurrencyNames {
		out = append(out, CurrencyFromISO(c.code, c.name))
	}
	return out
}

// CurrencyFromISO builds currency metadata for code, filling symbol and
// decimal places from the ISO 4217 table. Unknown codes get two decimals
// and the code itself as symbol.
func CurrencyFromISO(code, name string) Currency {
	code = NormalizeCode(code)
	c := Currency{
		CurrencyCode:  code,
		Name:          name,
		Symbol:        code,
		DecimalPlaces: 2,
		IsActive:      true,
	}
	if iso := money.GetCurrency(code); iso != nil {
		c.Symbol = iso.Grapheme
		c.DecimalPlaces = iso.Fraction
	}
	if c.Name == "" {
		c.Name = code
	}
	return c
}
