package ratesource

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Chain asks each source in order and returns the first success.
type Chain struct {
	sources []portssvc.RateSource
}

var _ portssvc.RateSource = (*Chain)(nil)

func NewChain(sources ...portssvc.RateSource) *Chain {
	return &Chain{sources: sources}
}

func (c *Chain) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	var errs []error
	for _, src := range c.sources {
		rate, err := src.FetchRate(ctx, from, to)
		if err == nil && rate.IsPositive() {
			return rate, nil
		}
		if err == nil {
			err = fmt.Errorf("non-positive rate %s", rate)
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return decimal.Zero, chainError("rate "+from+"/"+to, errs)
}

func (c *Chain) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	var errs []error
	for _, src := range c.sources {
		list, err := src.FetchCurrencies(ctx)
		if err == nil && len(list) > 0 {
			return list, nil
		}
		if err == nil {
			err = errors.New("empty currency list")
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, chainError("currencies", errs)
}

// FetchBulk delegates to the first source with a bulk endpoint.
func (c *Chain) FetchBulk(ctx context.Context, items []domain.ConversionItem) ([]domain.ConversionResult, error) {
	for _, src := range c.sources {
		results, err := src.FetchBulk(ctx, items)
		if errors.Is(err, portssvc.ErrBulkUnsupported) {
			continue
		}
		return results, err
	}
	return nil, portssvc.ErrBulkUnsupported
}

func chainError(what string, errs []error) error {
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", what, portssvc.ErrNotConfigured)
	}
	return fmt.Errorf("%s: all sources failed: %w", what, errors.Join(errs...))
}
