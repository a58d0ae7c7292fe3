package dto

import "github.com/SscSPs/mma_currency/internal/core/domain"

// SetCurrencyPreferenceRequest adds or updates one of the caller's currencies.
type SetCurrencyPreferenceRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,currency_code"`
	IsPrimary    bool   `json:"isPrimary"`
}

// CurrencyPreferenceResponse defines the data returned for a currency preference.
type CurrencyPreferenceResponse struct {
	PreferenceID string `json:"preferenceID"`
	CurrencyCode string `json:"currencyCode"`
	IsPrimary    bool   `json:"isPrimary"`
	DisplayOrder int    `json:"displayOrder"`
}

// ListCurrencyPreferencesResponse wraps the caller's preferences.
type ListCurrencyPreferencesResponse struct {
	Preferences []CurrencyPreferenceResponse `json:"preferences"`
}

func ToCurrencyPreferenceResponse(p domain.CurrencyPreference) CurrencyPreferenceResponse {
	return CurrencyPreferenceResponse{
		PreferenceID: p.PreferenceID,
		CurrencyCode: p.CurrencyCode,
		IsPrimary:    p.IsPrimary,
		DisplayOrder: p.DisplayOrder,
	}
}

// ToListCurrencyPreferencesResponse never returns a nil slice, so the JSON is [] when empty.
func ToListCurrencyPreferencesResponse(prefs []domain.CurrencyPreference) ListCurrencyPreferencesResponse {
	res := ListCurrencyPreferencesResponse{Preferences: make([]CurrencyPreferenceResponse, len(prefs))}
	for i, p := range prefs {
		res.Preferences[i] = ToCurrencyPreferenceResponse(p)
	}
	return res
}
