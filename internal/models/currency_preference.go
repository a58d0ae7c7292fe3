package models

// CurrencyPreference is a row of the currency_preferences table.
type CurrencyPreference struct {
	PreferenceID string `json:"preferenceID"` // Primary Key (UUID)
	UserID       string `json:"userID"`
	CurrencyCode string `json:"currencyCode"` // FK -> Currency.currencyCode
	IsPrimary    bool   `json:"isPrimary"`
	DisplayOrder int    `json:"displayOrder"`
	AuditFields
}
