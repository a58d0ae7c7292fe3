package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// RateSource serves stored rates and the stored currency catalog. It is the last
// provider consulted when the remote APIs are unreachable.
type RateSource struct {
	rates      portsrepo.ExchangeRateReader
	currencies portsrepo.CurrencyReader
}

var _ portssvc.RateSource = (*RateSource)(nil)

func NewRateSource(rates portsrepo.ExchangeRateReader, currencies portsrepo.CurrencyReader) *RateSource {
	return &RateSource{rates: rates, currencies: currencies}
}

func (s *RateSource) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	rate, err := s.rates.FindExchangeRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored rate %s/%s: %w", from, to, err)
	}
	return rate.Rate, nil
}

func (s *RateSource) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	list, err := s.currencies.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperrors.NewNotFoundError("currency catalog is empty")
	}
	return list, nil
}

func (s *RateSource) FetchBulk(context.Context, []domain.ConversionItem) ([]domain.ConversionResult, error) {
	return nil, portssvc.ErrBulkUnsupported
}
