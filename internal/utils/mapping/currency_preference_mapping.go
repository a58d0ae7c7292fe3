package mapping

import (
	"github.com/SscSPs/mma_currency/internal/core/domain"
	"github.com/SscSPs/mma_currency/internal/models"
)

// ToModelCurrencyPreference converts a domain CurrencyPreference to a model CurrencyPreference
func ToModelCurrencyPreference(d domain.CurrencyPreference) models.CurrencyPreference {
	return models.CurrencyPreference{
		PreferenceID: d.PreferenceID,
		UserID:       d.UserID,
		CurrencyCode: d.CurrencyCode,
		IsPrimary:    d.IsPrimary,
		DisplayOrder: d.DisplayOrder,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrencyPreference converts a model CurrencyPreference to a domain CurrencyPreference
func ToDomainCurrencyPreference(m models.CurrencyPreference) domain.CurrencyPreference {
	return domain.CurrencyPreference{
		PreferenceID: m.PreferenceID,
		UserID:       m.UserID,
		CurrencyCode: m.CurrencyCode,
		IsPrimary:    m.IsPrimary,
		DisplayOrder: m.DisplayOrder,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainCurrencyPreferenceSlice(ms []models.CurrencyPreference) []domain.CurrencyPreference {
	ds := make([]domain.CurrencyPreference, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrencyPreference(m)
	}
	return ds
}
