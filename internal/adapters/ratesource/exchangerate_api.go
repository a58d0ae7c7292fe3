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

// ExchangeRateAPI is the keyed primary provider (exchangerate-api.com v6).
// Bulk conversion goes to a separate endpoint when one is configured.
type ExchangeRateAPI struct {
	client  *http.Client
	baseURL string
	apiKey  string
	bulkURL string
}

var _ portssvc.RateSource = (*ExchangeRateAPI)(nil)

func NewExchangeRateAPI(client *http.Client, baseURL, apiKey, bulkURL string) *ExchangeRateAPI {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &ExchangeRateAPI{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		bulkURL: bulkURL,
	}
}

type pairResponse struct {
	Result         string          `json:"result"`
	ErrorType      string          `json:"error-type"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

type codesResponse struct {
	Result         string      `json:"result"`
	ErrorType      string      `json:"error-type"`
	SupportedCodes [][2]string `json:"supported_codes"`
}

type bulkRequest struct {
	Items []domain.ConversionItem `json:"items"`
}

type bulkResponse struct {
	Results []domain.ConversionResult `json:"results"`
}

func (a *ExchangeRateAPI) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if a.apiKey == "" {
		return decimal.Zero, portssvc.ErrNotConfigured
	}
	var body pairResponse
	url := fmt.Sprintf("%s/%s/pair/%s/%s", a.baseURL, a.apiKey, from, to)
	if err := getJSON(ctx, a.client, url, &body); err != nil {
		return decimal.Zero, fmt.Errorf("exchangerate-api pair %s/%s: %w", from, to, err)
	}
	if body.Result != "success" {
		return decimal.Zero, fmt.Errorf("exchangerate-api pair %s/%s: %s", from, to, errorType(body.ErrorType))
	}
	return body.ConversionRate, nil
}

func (a *ExchangeRateAPI) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	if a.apiKey == "" {
		return nil, portssvc.ErrNotConfigured
	}
	var body codesResponse
	url := fmt.Sprintf("%s/%s/codes", a.baseURL, a.apiKey)
	if err := getJSON(ctx, a.client, url, &body); err != nil {
		return nil, fmt.Errorf("exchangerate-api codes: %w", err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("exchangerate-api codes: %s", errorType(body.ErrorType))
	}
	out := make([]domain.Currency, 0, len(body.SupportedCodes))
	for _, pair := range body.SupportedCodes {
		if !domain.ValidCode(domain.NormalizeCode(pair[0])) {
			continue
		}
		out = append(out, domain.CurrencyFromISO(pair[0], pair[1]))
	}
	return out, nil
}

func (a *ExchangeRateAPI) FetchBulk(ctx context.Context, items []domain.ConversionItem) ([]domain.ConversionResult, error) {
	if a.bulkURL == "" {
		return nil, portssvc.ErrBulkUnsupported
	}
	var body bulkResponse
	if err := postJSON(ctx, a.client, a.bulkURL, bulkRequest{Items: items}, &body); err != nil {
		return nil, fmt.Errorf("bulk conversion: %w", err)
	}
	return body.Results, nil
}

func errorType(t string) string {
	if t == "" {
		return "unknown error"
	}
	return t
}
