package mapping

import (
	"github.com/SscSPs/mma_currency/internal/core/domain"
	"github.com/SscSPs/mma_currency/internal/models"
	"github.com/shopspring/decimal"
)

// ToDomainRecord converts a model Record to a domain Record, keeping only the non-null amounts.
func ToDomainRecord(m models.Record) domain.Record {
	amounts := make(map[domain.AmountField]decimal.Decimal, 2)
	put := func(field domain.AmountField, v decimal.NullDecimal) {
		if v.Valid {
			amounts[field] = v.Decimal
		}
	}
	put(domain.FieldAmount, m.Amount)
	put(domain.FieldSpentAmount, m.SpentAmount)
	put(domain.FieldInitialAmount, m.InitialAmount)
	put(domain.FieldCurrentValue, m.CurrentValue)
	return domain.Record{ID: m.ID, Currency: m.Currency, Amounts: amounts}
}

// ToDomainRecordSlice converts a slice of model Records to domain Records
func ToDomainRecordSlice(ms []models.Record) []domain.Record {
	ds := make([]domain.Record, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecord(m)
	}
	return ds
}
