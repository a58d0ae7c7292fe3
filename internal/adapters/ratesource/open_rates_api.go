package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// OpenRatesAPI is the keyless fallback provider. It only answers single rates.
type OpenRatesAPI struct {
	client  *http.Client
	baseURL string
}

var _ portssvc.RateSource = (*OpenRatesAPI)(nil)

func NewOpenRatesAPI(client *http.Client, baseURL string) *OpenRatesAPI {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &OpenRatesAPI{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (a *OpenRatesAPI) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if a.baseURL == "" {
		return decimal.Zero, portssvc.ErrNotConfigured
	}
	var body latestResponse
	if err := getJSON(ctx, a.client, a.baseURL+"/"+from, &body); err != nil {
		return decimal.Zero, fmt.Errorf("open rates %s: %w", from, err)
	}
	rate, ok := body.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("open rates %s: no rate for %s", from, to)
	}
	return rate, nil
}

func (a *OpenRatesAPI) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return nil, portssvc.ErrNotConfigured
}

func (a *OpenRatesAPI) FetchBulk(ctx context.Context, items []domain.ConversionItem) ([]domain.ConversionResult, error) {
	return nil, portssvc.ErrBulkUnsupported
}
