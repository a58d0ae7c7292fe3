package domain

// CurrencyPreference records that a user works with a currency. At most one
// preference per user is primary; the primary currency is the one the user's
// records are kept in.
type CurrencyPreference struct {
	PreferenceID string `json:"preferenceID"`
	UserID       string `json:"userID"`
	CurrencyCode string `json:"currencyCode"`
	IsPrimary    bool   `json:"isPrimary"`
	DisplayOrder int    `json:"displayOrder"`
	AuditFields
}
