package domain

import "github.com/shopspring/decimal"

// ConversionItem is one (amount, from, to) triple of a bulk conversion.
type ConversionItem struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
}

// ConversionResult answers exactly one ConversionItem.
type ConversionResult struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	Success         bool             `json:"success"`
	ConvertedAmount *decimal.Decimal `json:"convertedAmount,omitempty"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// Converted builds a successful result for item at rate.
func Converted(item ConversionItem, rate decimal.Decimal) ConversionResult {
	amount := item.Amount.Mul(rate)
	return ConversionResult{
		ID:              item.ID,
		Type:            item.Type,
		Success:         true,
		ConvertedAmount: &amount,
		Rate:            &rate,
	}
}

// FailedConversion builds a failed result for item.
func FailedConversion(item ConversionItem, reason string) ConversionResult {
	return ConversionResult{
		ID:      item.ID,
		Type:    item.Type,
		Success: false,
		Error:   reason,
	}
}
