package dto

import (
	"time"

	"github.com/SscSPs/mma_currency/internal/core/domain"
)

// CreateCurrencyRequest defines the data needed to add a currency to the catalog.
type CreateCurrencyRequest struct {
	CurrencyCode  string `json:"currencyCode" binding:"required,currency_code"`
	Symbol        string `json:"symbol" binding:"required"`
	Name          string `json:"name" binding:"required"`
	DecimalPlaces *int   `json:"decimalPlaces" binding:"omitempty,min=0,max=18"`
	IsActive      *bool  `json:"isActive"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode  string     `json:"currencyCode"`
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	DecimalPlaces int        `json:"decimalPlaces"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	res := CurrencyResponse{
		CurrencyCode:  curr.CurrencyCode,
		Symbol:        curr.Symbol,
		Name:          curr.Name,
		DecimalPlaces: curr.DecimalPlaces,
		IsActive:      curr.IsActive,
		CreatedBy:     curr.CreatedBy,
	}
	if !curr.CreatedAt.IsZero() {
		created := curr.CreatedAt
		res.CreatedAt = &created
	}
	return res
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
