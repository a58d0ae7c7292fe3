package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	"github.com/SscSPs/mma_currency/internal/models"
	"github.com/SscSPs/mma_currency/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type recordTable struct {
	name    string
	amounts []domain.AmountField
}

// recordTables maps each domain to its table and monetary columns. Column names
// double as domain.AmountField values.
var recordTables = map[domain.RecordDomain]recordTable{
	domain.DomainTransactions: {name: "transactions", amounts: []domain.AmountField{domain.FieldAmount}},
	domain.DomainBudgets:      {name: "budgets", amounts: []domain.AmountField{domain.FieldAmount, domain.FieldSpentAmount}},
	domain.DomainLoans:        {name: "loans", amounts: []domain.AmountField{domain.FieldAmount}},
	domain.DomainInvestments:  {name: "investments", amounts: []domain.AmountField{domain.FieldInitialAmount, domain.FieldCurrentValue}},
}

// PgxRecordRepository reads and rewrites one user's records of one domain.
type PgxRecordRepository struct {
	BaseRepository
	table  recordTable
	userID string
}

var _ portsrepo.RecordStore = (*PgxRecordRepository)(nil)

// NewPgxRecordRepository creates the record store of d scoped to userID.
func NewPgxRecordRepository(db DB, d domain.RecordDomain, userID string) (*PgxRecordRepository, error) {
	table, ok := recordTables[d]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown record domain %q", d))
	}
	return &PgxRecordRepository{BaseRepository: BaseRepository{Pool: db}, table: table, userID: userID}, nil
}

// ListAll returns every record of the user in this domain.
func (r *PgxRecordRepository) ListAll(ctx context.Context) ([]domain.Record, error) {
	cols := make([]string, len(r.table.amounts))
	for i, f := range r.table.amounts {
		cols[i] = string(f)
	}
	query := fmt.Sprintf(`SELECT id, user_id, currency, updated_at, %s FROM %s WHERE user_id = $1 ORDER BY id;`,
		strings.Join(cols, ", "), r.table.name)

	rows, err := r.Pool.Query(ctx, query, r.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table.name, err)
	}
	defer rows.Close()

	modelRecords, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Record, error) {
		var m models.Record
		dest := []any{&m.ID, &m.UserID, &m.Currency, &m.UpdatedAt}
		for _, f := range r.table.amounts {
			dest = append(dest, amountTarget(&m, f))
		}
		return m, row.Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", r.table.name, err)
	}
	return mapping.ToDomainRecordSlice(modelRecords), nil
}

// UpdateByID sets the currency and the given amounts of one record.
func (r *PgxRecordRepository) UpdateByID(ctx context.Context, id string, update domain.RecordUpdate) error {
	if update.Currency == "" {
		return apperrors.NewValidationError("currency is required")
	}

	sets := []string{"currency = $1", "updated_at = NOW()"}
	args := []any{update.Currency}
	for _, f := range r.table.amounts {
		amount, ok := update.Amounts[f]
		if !ok {
			continue
		}
		args = append(args, amount)
		sets = append(sets, fmt.Sprintf("%s = $%d", f, len(args)))
	}
	for f := range update.Amounts {
		if !r.hasAmount(f) {
			return apperrors.NewValidationError(fmt.Sprintf("%s has no column %s", r.table.name, f))
		}
	}

	args = append(args, id, r.userID)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d AND user_id = $%d;`,
		r.table.name, strings.Join(sets, ", "), len(args)-1, len(args))

	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s record %s: %w", r.table.name, id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s record %s not found", r.table.name, id))
	}
	return nil
}

func (r *PgxRecordRepository) hasAmount(f domain.AmountField) bool {
	for _, a := range r.table.amounts {
		if a == f {
			return true
		}
	}
	return false
}

func amountTarget(m *models.Record, f domain.AmountField) *decimal.NullDecimal {
	switch f {
	case domain.FieldSpentAmount:
		return &m.SpentAmount
	case domain.FieldInitialAmount:
		return &m.InitialAmount
	case domain.FieldCurrentValue:
		return &m.CurrentValue
	default:
		return &m.Amount
	}
}

// PgxRecordStoreProvider builds per-user record stores on a shared pool.
type PgxRecordStoreProvider struct {
	db DB
}

var _ portsrepo.RecordStoreProvider = (*PgxRecordStoreProvider)(nil)

func NewPgxRecordStoreProvider(db DB) *PgxRecordStoreProvider {
	return &PgxRecordStoreProvider{db: db}
}

// ForUser returns one store per domain, scoped to userID.
func (p *PgxRecordStoreProvider) ForUser(userID string) portsrepo.RecordStores {
	stores := make(portsrepo.RecordStores, len(recordTables))
	for d := range recordTables {
		// recordTables is the source of valid domains, so this cannot fail.
		repo, _ := NewPgxRecordRepository(p.db, d, userID)
		stores[d] = repo
	}
	return stores
}
