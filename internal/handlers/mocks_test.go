package handlers_test

import (
	"context"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/SscSPs/mma_currency/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}
func (m *MockExchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.RateQuote, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock RateCache ---
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) GetRate(ctx context.Context, from, to string) domain.RateQuote {
	args := m.Called(ctx, from, to)
	return args.Get(0).(domain.RateQuote)
}
func (m *MockRateCache) GetCurrencies(ctx context.Context) []domain.Currency {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Currency)
}
func (m *MockRateCache) ClearCache(ctx context.Context) {
	m.Called(ctx)
}

var _ portssvc.RateCacheSvc = (*MockRateCache)(nil)

// --- Mock BulkConverter ---
type MockBulkConverter struct {
	mock.Mock
}

func (m *MockBulkConverter) ConvertMany(ctx context.Context, items []domain.ConversionItem) []domain.ConversionResult {
	args := m.Called(ctx, items)
	return args.Get(0).([]domain.ConversionResult)
}

var _ portssvc.BulkConverterSvc = (*MockBulkConverter)(nil)

// --- Mock ConversionManager ---
type MockConversionManager struct {
	mock.Mock
}

func (m *MockConversionManager) RequestCurrencyChange(ctx context.Context, from, to string) (domain.ConversionTask, portssvc.ChangeOutcome, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(domain.ConversionTask), args.Get(1).(portssvc.ChangeOutcome), args.Error(2)
}
func (m *MockConversionManager) RunMigration(ctx context.Context, from, to string) (domain.ConversionTask, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(domain.ConversionTask), args.Error(1)
}
func (m *MockConversionManager) ProcessPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockConversionManager) GetQueueStatus() domain.ConversionQueue {
	args := m.Called()
	return args.Get(0).(domain.ConversionQueue)
}
func (m *MockConversionManager) ClearCompletedTasks(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var _ portssvc.ConversionManagerSvc = (*MockConversionManager)(nil)

// --- Mock ConversionRegistry ---
type MockConversionRegistry struct {
	mock.Mock
}

func (m *MockConversionRegistry) ForUser(ctx context.Context, userID string) (portssvc.ConversionManagerSvc, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portssvc.ConversionManagerSvc), args.Error(1)
}

var _ portssvc.ConversionRegistrySvc = (*MockConversionRegistry)(nil)

// --- Mock CurrencyPreferenceService ---
type MockCurrencyPreferenceService struct {
	mock.Mock
}

func (m *MockCurrencyPreferenceService) ListPreferences(ctx context.Context, userID string) ([]domain.CurrencyPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyPreference), args.Error(1)
}

func (m *MockCurrencyPreferenceService) SetPreference(ctx context.Context, userID string, req dto.SetCurrencyPreferenceRequest) (*domain.CurrencyPreference, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyPreference), args.Error(1)
}

func (m *MockCurrencyPreferenceService) SetPrimaryCurrency(ctx context.Context, userID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

var _ portssvc.CurrencyPreferenceSvc = (*MockCurrencyPreferenceService)(nil)
