package services

import (
	"context"
	"errors"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrBulkUnsupported is returned by RateSource.FetchBulk when the source has no batch endpoint.
var ErrBulkUnsupported = errors.New("bulk conversion not supported by rate source")

// ErrNotConfigured is returned by a rate source that lacks the settings it needs.
var ErrNotConfigured = errors.New("rate source not configured")

// RateSource is the upstream provider of exchange rates and currency metadata.
type RateSource interface {
	// FetchRate returns the current rate from one currency to another.
	FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error)

	// FetchCurrencies returns the full currency catalog.
	FetchCurrencies(ctx context.Context) ([]domain.Currency, error)

	// FetchBulk converts a batch in one call, one result per item in input order.
	FetchBulk(ctx context.Context, items []domain.ConversionItem) ([]domain.ConversionResult, error)
}

// ConnectivityMonitor reports online/offline transitions.
type ConnectivityMonitor interface {
	// IsConnected returns the current connectivity state.
	IsConnected() bool

	// Subscribe returns a channel receiving every subsequent transition and a func that cancels the subscription.
	Subscribe() (<-chan domain.ConnectivityEvent, func())
}
