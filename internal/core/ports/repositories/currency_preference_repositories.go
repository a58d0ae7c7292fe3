package repositories

import (
	"context"

	"github.com/SscSPs/mma_currency/internal/core/domain"
)

// CurrencyPreferenceReader defines read operations for a user's currency preferences
type CurrencyPreferenceReader interface {
	// ListPreferences returns the user's preferences ordered by display order, then code.
	ListPreferences(ctx context.Context, userID string) ([]domain.CurrencyPreference, error)
}

// CurrencyPreferenceWriter defines write operations for a user's currency preferences
type CurrencyPreferenceWriter interface {
	// SavePreference inserts the preference, or updates the existing one for the same
	// user and currency. Saving a primary preference clears the user's previous primary
	// in the same transaction. It returns the stored row.
	SavePreference(ctx context.Context, pref domain.CurrencyPreference) (domain.CurrencyPreference, error)
}

// CurrencyPreferenceRepositoryFacade combines all currency preference repository interfaces
type CurrencyPreferenceRepositoryFacade interface {
	CurrencyPreferenceReader
	CurrencyPreferenceWriter
}
