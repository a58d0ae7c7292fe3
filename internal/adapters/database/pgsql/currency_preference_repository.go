package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	"github.com/SscSPs/mma_currency/internal/models"
	"github.com/SscSPs/mma_currency/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxCurrencyPreferenceRepository stores the currencies each user works with.
type PgxCurrencyPreferenceRepository struct {
	BaseRepository
}

func NewPgxCurrencyPreferenceRepository(db DB) *PgxCurrencyPreferenceRepository {
	return &PgxCurrencyPreferenceRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.CurrencyPreferenceRepositoryFacade = (*PgxCurrencyPreferenceRepository)(nil)

const preferenceColumns = `preference_id, user_id, currency_code, is_primary, display_order, created_at, created_by, last_updated_at, last_updated_by`

// SavePreference upserts on (user_id, currency_code). The display order of an
// existing row is kept.
func (r *PgxCurrencyPreferenceRepository) SavePreference(ctx context.Context, pref domain.CurrencyPreference) (domain.CurrencyPreference, error) {
	m := mapping.ToModelCurrencyPreference(pref)

	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.CurrencyPreference{}, err
	}

	if m.IsPrimary {
		_, err = tx.Exec(ctx, `
			UPDATE currency_preferences
			SET is_primary = FALSE, last_updated_at = $2, last_updated_by = $3
			WHERE user_id = $1 AND is_primary AND currency_code <> $4`,
			m.UserID, m.LastUpdatedAt, m.LastUpdatedBy, m.CurrencyCode,
		)
		if err != nil {
			_ = r.Rollback(ctx, tx)
			return domain.CurrencyPreference{}, apperrors.NewAppError(http.StatusInternalServerError, "failed to clear primary currency", err)
		}
	}

	saved, err := scanPreference(tx.QueryRow(ctx, `
		INSERT INTO currency_preferences (`+preferenceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, currency_code) DO UPDATE SET
			is_primary = EXCLUDED.is_primary,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING `+preferenceColumns,
		m.PreferenceID, m.UserID, m.CurrencyCode, m.IsPrimary, m.DisplayOrder,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	))
	if err != nil {
		_ = r.Rollback(ctx, tx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return domain.CurrencyPreference{}, apperrors.NewValidationError(fmt.Sprintf("currency %s does not exist", m.CurrencyCode))
		}
		return domain.CurrencyPreference{}, apperrors.NewAppError(http.StatusInternalServerError, "failed to save currency preference", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return domain.CurrencyPreference{}, err
	}
	return mapping.ToDomainCurrencyPreference(saved), nil
}

// ListPreferences returns the user's preferences ordered by display order, then code.
func (r *PgxCurrencyPreferenceRepository) ListPreferences(ctx context.Context, userID string) ([]domain.CurrencyPreference, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+preferenceColumns+` FROM currency_preferences
		WHERE user_id = $1
		ORDER BY display_order, currency_code`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency preferences: %w", err)
	}
	defer rows.Close()

	prefs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CurrencyPreference, error) {
		return scanPreference(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currency preferences: %w", err)
	}
	return mapping.ToDomainCurrencyPreferenceSlice(prefs), nil
}

func scanPreference(row pgx.Row) (models.CurrencyPreference, error) {
	var p models.CurrencyPreference
	err := row.Scan(
		&p.PreferenceID,
		&p.UserID,
		&p.CurrencyCode,
		&p.IsPrimary,
		&p.DisplayOrder,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}
