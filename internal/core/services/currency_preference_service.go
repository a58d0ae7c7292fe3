package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	"github.com/SscSPs/mma_currency/internal/dto"
	"github.com/google/uuid"
)

// CurrencyPreferenceService manages the currencies each user works with.
type CurrencyPreferenceService struct {
	BaseService
	prefRepo portsrepo.CurrencyPreferenceRepositoryFacade
}

func NewCurrencyPreferenceService(prefRepo portsrepo.CurrencyPreferenceRepositoryFacade) *CurrencyPreferenceService {
	return &CurrencyPreferenceService{prefRepo: prefRepo}
}

// ListPreferences returns the user's preferences, or an empty slice.
func (s *CurrencyPreferenceService) ListPreferences(ctx context.Context, userID string) ([]domain.CurrencyPreference, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	prefs, err := s.prefRepo.ListPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency preferences in service: %w", err)
	}
	if prefs == nil {
		return []domain.CurrencyPreference{}, nil
	}
	return prefs, nil
}

// SetPreference stores the preference for the caller.
func (s *CurrencyPreferenceService) SetPreference(ctx context.Context, userID string, req dto.SetCurrencyPreferenceRequest) (*domain.CurrencyPreference, error) {
	return s.save(ctx, userID, req.CurrencyCode, req.IsPrimary)
}

// SetPrimaryCurrency marks code as the user's primary currency.
func (s *CurrencyPreferenceService) SetPrimaryCurrency(ctx context.Context, userID, code string) error {
	_, err := s.save(ctx, userID, code, true)
	return err
}

func (s *CurrencyPreferenceService) save(ctx context.Context, userID, rawCode string, primary bool) (*domain.CurrencyPreference, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	code := domain.NormalizeCode(rawCode)
	if !domain.ValidCode(code) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid currency code %q", rawCode))
	}

	now := time.Now()
	pref := domain.CurrencyPreference{
		PreferenceID: uuid.NewString(),
		UserID:       userID,
		CurrencyCode: code,
		IsPrimary:    primary,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	saved, err := s.prefRepo.SavePreference(ctx, pref)
	if err != nil {
		s.LogError(ctx, err, "Failed to save currency preference", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to save currency preference in service: %w", err)
	}
	s.LogInfo(ctx, "Currency preference saved", slog.String("currency_code", code), slog.Bool("is_primary", primary))
	return &saved, nil
}
