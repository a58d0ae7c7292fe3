package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	"github.com/SscSPs/mma_currency/internal/dto"
	"github.com/SscSPs/mma_currency/internal/handlers"
	"github.com/SscSPs/mma_currency/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const catalogSecret = "catalog-test-secret"

func newCatalogRouter(t *testing.T) (*gin.Engine, *MockCurrencyService, *MockExchangeRateService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()

	currencies := new(MockCurrencyService)
	rates := new(MockExchangeRateService)
	r := gin.New()
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(catalogSecret))
	handlers.RegisterCurrencyRoutes(v1, currencies)
	handlers.RegisterExchangeRateRoutes(v1, rates)
	return r, currencies, rates
}

func serveAs(t *testing.T, r *gin.Engine, userID, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(catalogSecret))
	require.NoError(t, err)

	req, _ := http.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signed)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCurrency(t *testing.T) {
	r, currencies, _ := newCatalogRouter(t)
	currencies.On("CreateCurrency", mock.Anything, mock.MatchedBy(func(req dto.CreateCurrencyRequest) bool {
		return req.CurrencyCode == "npr" && req.DecimalPlaces == nil
	}), "admin").Return(&domain.Currency{CurrencyCode: "NPR", Symbol: "रू", Name: "Nepalese Rupee", DecimalPlaces: 2, IsActive: true}, nil).Once()

	w := serveAs(t, r, "admin", http.MethodPost, "/api/v1/currencies", `{"currencyCode":"npr","symbol":"रू","name":"Nepalese Rupee"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var res dto.CurrencyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "NPR", res.CurrencyCode)
	assert.Equal(t, 2, res.DecimalPlaces)
	currencies.AssertExpectations(t)
}

func TestCreateCurrency_InvalidBody(t *testing.T) {
	r, currencies, _ := newCatalogRouter(t)

	w := serveAs(t, r, "admin", http.MethodPost, "/api/v1/currencies", `{"currencyCode":"TOOLONG","symbol":"x","name":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	currencies.AssertNotCalled(t, "CreateCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCurrencyByCode(t *testing.T) {
	r, currencies, _ := newCatalogRouter(t)
	currencies.On("GetCurrencyByCode", mock.Anything, "EUR").Return(&domain.Currency{CurrencyCode: "EUR", Symbol: "€"}, nil).Once()
	currencies.On("GetCurrencyByCode", mock.Anything, "XXX").Return(nil, apperrors.NewNotFoundError("currency XXX not found")).Once()

	w := serveAs(t, r, "u1", http.MethodGet, "/api/v1/currencies/eur", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"symbol":"€"`)

	w = serveAs(t, r, "u1", http.MethodGet, "/api/v1/currencies/XXX", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "currency XXX not found")

	w = serveAs(t, r, "u1", http.MethodGet, "/api/v1/currencies/E", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	currencies.AssertExpectations(t)
}

func TestListCurrencies(t *testing.T) {
	r, currencies, _ := newCatalogRouter(t)
	currencies.On("ListCurrencies", mock.Anything).Return(domain.DefaultCurrencies(), nil).Once()

	w := serveAs(t, r, "u1", http.MethodGet, "/api/v1/currencies", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var res []dto.CurrencyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res, len(domain.DefaultCurrencies()))
}

func TestGetExchangeRate(t *testing.T) {
	r, _, rates := newCatalogRouter(t)
	fetched := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rates.On("GetExchangeRate", mock.Anything, "USD", "EUR").Return(&domain.RateQuote{
		From: "USD", To: "EUR", Rate: decimal.RequireFromString("0.92"), FetchedAt: fetched, Origin: domain.RateOriginStale,
	}, nil).Once()

	w := serveAs(t, r, "u1", http.MethodGet, "/api/v1/exchange-rates/usd/eur", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var res dto.RateQuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "stale", res.Origin)
	assert.False(t, res.Live)
	assert.True(t, res.Rate.Equal(decimal.RequireFromString("0.92")))
	require.NotNil(t, res.FetchedAt)
	assert.True(t, fetched.Equal(*res.FetchedAt))
}

func TestGetExchangeRate_InvalidCode(t *testing.T) {
	r, _, rates := newCatalogRouter(t)

	w := serveAs(t, r, "u1", http.MethodGet, "/api/v1/exchange-rates/US/EUR", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	rates.AssertNotCalled(t, "GetExchangeRate", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateExchangeRate(t *testing.T) {
	r, _, rates := newCatalogRouter(t)
	rates.On("CreateExchangeRate", mock.Anything, mock.MatchedBy(func(req dto.CreateExchangeRateRequest) bool {
		return req.FromCurrencyCode == "USD" && req.Rate.Equal(decimal.RequireFromString("1.1"))
	}), "admin").Return(&domain.ExchangeRate{ExchangeRateID: "rate-1", FromCurrencyCode: "USD", ToCurrencyCode: "EUR", Rate: decimal.RequireFromString("1.1")}, nil).Once()
	rates.On("CreateExchangeRate", mock.Anything, mock.MatchedBy(func(req dto.CreateExchangeRateRequest) bool {
		return req.FromCurrencyCode == "GBP"
	}), "admin").Return(nil, apperrors.NewValidationError("rate must be positive")).Once()

	w := serveAs(t, r, "admin", http.MethodPost, "/api/v1/exchange-rates",
		`{"fromCurrencyCode":"USD","toCurrencyCode":"EUR","rate":"1.1","dateEffective":"2026-03-01T00:00:00Z"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"exchangeRateID":"rate-1"`)

	w = serveAs(t, r, "admin", http.MethodPost, "/api/v1/exchange-rates",
		`{"fromCurrencyCode":"GBP","toCurrencyCode":"EUR","rate":"-1","dateEffective":"2026-03-01T00:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "rate must be positive")
	rates.AssertExpectations(t)
}
