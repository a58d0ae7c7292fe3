package ratesource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestExchangeRateAPI_FetchRate(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/secret/pair/USD/EUR", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":"success","conversion_rate":0.9123}`))
	})

	api := NewExchangeRateAPI(srv.Client(), srv.URL+"/v6/", "secret", "")
	rate, err := api.FetchRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.9123").Equal(rate))
}

func TestExchangeRateAPI_ErrorResult(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
	})

	api := NewExchangeRateAPI(srv.Client(), srv.URL, "secret", "")
	_, err := api.FetchRate(context.Background(), "USD", "XXX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported-code")
}

func TestExchangeRateAPI_HTTPError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota reached", http.StatusTooManyRequests)
	})

	api := NewExchangeRateAPI(srv.Client(), srv.URL, "secret", "")
	_, err := api.FetchRate(context.Background(), "USD", "EUR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestExchangeRateAPI_NoKey(t *testing.T) {
	api := NewExchangeRateAPI(nil, "http://unused", "", "")

	_, err := api.FetchRate(context.Background(), "USD", "EUR")
	assert.ErrorIs(t, err, portssvc.ErrNotConfigured)

	_, err = api.FetchCurrencies(context.Background())
	assert.ErrorIs(t, err, portssvc.ErrNotConfigured)

	_, err = api.FetchBulk(context.Background(), nil)
	assert.ErrorIs(t, err, portssvc.ErrBulkUnsupported)
}

func TestExchangeRateAPI_FetchCurrencies(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/secret/codes", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":"success","supported_codes":[["USD","United States Dollar"],["JPY","Japanese Yen"],["??","bogus"]]}`))
	})

	api := NewExchangeRateAPI(srv.Client(), srv.URL, "secret", "")
	list, err := api.FetchCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "USD", list[0].CurrencyCode)
	assert.Equal(t, "United States Dollar", list[0].Name)
	assert.Equal(t, "$", list[0].Symbol)
	assert.Equal(t, 0, list[1].DecimalPlaces)
}

func TestExchangeRateAPI_FetchBulk(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req bulkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		results := make([]domain.ConversionResult, 0, len(req.Items))
		for _, item := range req.Items {
			results = append(results, domain.Converted(item, decimal.RequireFromString("2")))
		}
		_ = json.NewEncoder(w).Encode(bulkResponse{Results: results})
	})

	api := NewExchangeRateAPI(srv.Client(), "http://unused", "secret", srv.URL)
	items := []domain.ConversionItem{
		{ID: "a", Amount: decimal.NewFromInt(10), From: "USD", To: "EUR"},
		{ID: "b", Amount: decimal.NewFromInt(3), From: "USD", To: "EUR"},
	}
	results, err := api.FetchBulk(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[1].ID)
	assert.True(t, decimal.NewFromInt(6).Equal(*results[1].ConvertedAmount))
}

func TestOpenRatesAPI_FetchRate(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/GBP", r.URL.Path)
		_, _ = w.Write([]byte(`{"base":"GBP","rates":{"USD":1.27,"EUR":1.17}}`))
	})

	api := NewOpenRatesAPI(srv.Client(), srv.URL+"/latest")
	rate, err := api.FetchRate(context.Background(), "GBP", "EUR")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.17").Equal(rate))

	_, err = api.FetchRate(context.Background(), "GBP", "NPR")
	assert.Error(t, err)
}

type stubSource struct {
	rate       decimal.Decimal
	err        error
	currencies []domain.Currency
	bulkErr    error
	calls      int
}

func (s *stubSource) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	s.calls++
	return s.rate, s.err
}

func (s *stubSource) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.currencies, nil
}

func (s *stubSource) FetchBulk(ctx context.Context, items []domain.ConversionItem) ([]domain.ConversionResult, error) {
	if s.bulkErr != nil {
		return nil, s.bulkErr
	}
	out := make([]domain.ConversionResult, len(items))
	for i, item := range items {
		out[i] = domain.Converted(item, s.rate)
	}
	return out, nil
}

func TestChain_FirstSuccessWins(t *testing.T) {
	failing := &stubSource{err: errors.New("down"), bulkErr: portssvc.ErrBulkUnsupported}
	working := &stubSource{rate: decimal.RequireFromString("0.5"), bulkErr: portssvc.ErrBulkUnsupported}
	unused := &stubSource{rate: decimal.NewFromInt(9)}

	chain := NewChain(failing, working, unused)
	rate, err := chain.FetchRate(context.Background(), "USD", "GBP")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.5").Equal(rate))
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 0, unused.calls)
}

func TestChain_AllFail(t *testing.T) {
	first := &stubSource{err: errors.New("first down")}
	zero := &stubSource{rate: decimal.Zero}

	_, err := NewChain(first, zero).FetchRate(context.Background(), "USD", "GBP")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first down")
	assert.Contains(t, err.Error(), "non-positive")

	_, err = NewChain().FetchCurrencies(context.Background())
	assert.ErrorIs(t, err, portssvc.ErrNotConfigured)
}

func TestChain_FetchBulkSkipsUnsupported(t *testing.T) {
	noBulk := &stubSource{bulkErr: portssvc.ErrBulkUnsupported}
	bulk := &stubSource{rate: decimal.NewFromInt(2)}

	items := []domain.ConversionItem{{ID: "x", Amount: decimal.NewFromInt(4), From: "USD", To: "EUR"}}
	results, err := NewChain(noBulk, bulk).FetchBulk(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, decimal.NewFromInt(8).Equal(*results[0].ConvertedAmount))

	_, err = NewChain(noBulk).FetchBulk(context.Background(), items)
	assert.ErrorIs(t, err, portssvc.ErrBulkUnsupported)
}

func TestChain_FetchCurrenciesSkipsEmpty(t *testing.T) {
	empty := &stubSource{}
	full := &stubSource{currencies: domain.DefaultCurrencies()}

	list, err := NewChain(empty, full).FetchCurrencies(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, len(domain.DefaultCurrencies()))
}
