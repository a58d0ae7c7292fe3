package domain

import "github.com/shopspring/decimal"

// RecordDomain is one of the record categories subject to conversion.
type RecordDomain string

const (
	DomainTransactions RecordDomain = "transactions"
	DomainBudgets      RecordDomain = "budgets"
	DomainLoans        RecordDomain = "loans"
	DomainInvestments  RecordDomain = "investments"
)

// MigrationOrder is the fixed order in which domains are converted.
var MigrationOrder = []RecordDomain{DomainTransactions, DomainBudgets, DomainLoans, DomainInvestments}

// AmountField names a monetary column of a record.
type AmountField string

const (
	FieldAmount        AmountField = "amount"
	FieldSpentAmount   AmountField = "spent_amount"
	FieldInitialAmount AmountField = "initial_amount"
	FieldCurrentValue  AmountField = "current_value"
)

// Record is the currency-relevant projection of a stored financial record.
// Optional amounts (spent_amount, current_value) are absent from Amounts when not recorded.
type Record struct {
	ID       string                          `json:"id"`
	Currency string                          `json:"currency"`
	Amounts  map[AmountField]decimal.Decimal `json:"amounts"`
}

// RecordUpdate is the partial update written back after conversion.
type RecordUpdate struct {
	Currency string                          `json:"currency"`
	Amounts  map[AmountField]decimal.Decimal `json:"amounts"`
}
