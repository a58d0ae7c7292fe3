package services

import (
	"context"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	"github.com/SscSPs/mma_currency/internal/dto"
)

// RateCacheSvc memoizes rates and currency metadata.
type RateCacheSvc interface {
	// GetRate never fails: it degrades to stale, inverse or neutral rates and says so in the quote origin.
	GetRate(ctx context.Context, from, to string) domain.RateQuote

	// GetCurrencies returns the cached catalog, the last good one, or the built-in defaults.
	GetCurrencies(ctx context.Context) []domain.Currency

	// ClearCache drops every cached rate and currency.
	ClearCache(ctx context.Context)
}

// BulkConverterSvc converts batches of amounts.
type BulkConverterSvc interface {
	// ConvertMany returns exactly one result per item, in input order.
	ConvertMany(ctx context.Context, items []domain.ConversionItem) []domain.ConversionResult
}

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new catalog entry.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetExchangeRate returns the rate between two currencies through the rate cache.
	GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.RateQuote, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate persists a manually entered exchange rate.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

// PrimaryCurrencySetter records the currency a user's data is kept in.
type PrimaryCurrencySetter interface {
	// SetPrimaryCurrency marks code as the user's primary currency and clears the previous one.
	SetPrimaryCurrency(ctx context.Context, userID, code string) error
}

// CurrencyPreferenceSvc manages the currencies a user works with.
type CurrencyPreferenceSvc interface {
	PrimaryCurrencySetter

	// ListPreferences returns the user's preferences.
	ListPreferences(ctx context.Context, userID string) ([]domain.CurrencyPreference, error)

	// SetPreference adds or updates one preference. Setting a primary clears the previous one.
	SetPreference(ctx context.Context, userID string, req dto.SetCurrencyPreferenceRequest) (*domain.CurrencyPreference, error)
}
