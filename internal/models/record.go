package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the currency-relevant projection of a row in one of the record tables
// (transactions, budgets, loans, investments). Columns a table lacks stay null.
type Record struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userID"`
	Currency      string              `json:"currency"`
	Amount        decimal.NullDecimal `json:"amount"`
	SpentAmount   decimal.NullDecimal `json:"spentAmount"`
	InitialAmount decimal.NullDecimal `json:"initialAmount"`
	CurrentValue  decimal.NullDecimal `json:"currentValue"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}
