package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/SscSPs/mma_currency/internal/dto"
)

// CurrencyService serves the currency catalog through the rate cache and manages stored entries.
type CurrencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
	rates        portssvc.RateCacheSvc
}

func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade, rates portssvc.RateCacheSvc) *CurrencyService {
	return &CurrencyService{currencyRepo: currencyRepo, rates: rates}
}

// CreateCurrency stores a catalog entry. Symbol and decimal places default to the ISO 4217 values.
func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	code := domain.NormalizeCode(req.CurrencyCode)
	if !domain.ValidCode(code) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid currency code %q", req.CurrencyCode))
	}

	now := time.Now()
	currency := domain.CurrencyFromISO(code, req.Name)
	if req.Symbol != "" {
		currency.Symbol = req.Symbol
	}
	if req.DecimalPlaces != nil {
		currency.DecimalPlaces = *req.DecimalPlaces
	}
	if req.IsActive != nil {
		currency.IsActive = *req.IsActive
	}
	currency.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}
	s.rates.ClearCache(ctx)
	s.LogInfo(ctx, "Currency saved", slog.String("currency_code", code))
	return &currency, nil
}

// GetCurrencyByCode looks the code up in the cached catalog, then in the stored one.
func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code := domain.NormalizeCode(currencyCode)
	for _, c := range s.rates.GetCurrencies(ctx) {
		if c.CurrencyCode == code {
			return &c, nil
		}
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	if currency == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("currency %s not found", code))
	}
	return currency, nil
}

// ListCurrencies returns the cached catalog. It never fails; see RateCache.GetCurrencies.
func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies := s.rates.GetCurrencies(ctx)
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
