package dto

import (
	"time"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for recording a manual exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,currency_code"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,currency_code"`
	Rate             decimal.Decimal `json:"rate" binding:"required"` // positivity is checked by the service
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
}

// ExchangeRateResponse defines the structure for API responses containing a stored exchange rate.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		DateEffective:    rate.DateEffective,
		CreatedAt:        rate.CreatedAt,
		CreatedBy:        rate.CreatedBy,
	}
}

// RateQuoteResponse is returned by the rate lookup endpoint.
type RateQuoteResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	FetchedAt        *time.Time      `json:"fetchedAt,omitempty"`
	Origin           string          `json:"origin"`
	Live             bool            `json:"live"`
}

// ToRateQuoteResponse converts a domain.RateQuote to RateQuoteResponse DTO
func ToRateQuoteResponse(q *domain.RateQuote) RateQuoteResponse {
	res := RateQuoteResponse{
		FromCurrencyCode: q.From,
		ToCurrencyCode:   q.To,
		Rate:             q.Rate,
		Origin:           string(q.Origin),
		Live:             q.Live(),
	}
	if !q.FetchedAt.IsZero() {
		at := q.FetchedAt
		res.FetchedAt = &at
	}
	return res
}
