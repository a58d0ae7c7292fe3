package pgsql

import (
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every postgres repository. kv overrides the
// postgres key-value store when another backend is configured.
func NewRepositoryProvider(db DB, kv portsrepo.KeyValueStore) portsrepo.RepositoryProvider {
	if kv == nil {
		kv = NewPgxKVRepository(db)
	}
	return portsrepo.RepositoryProvider{
		CurrencyRepo:     NewPgxCurrencyRepository(db),
		ExchangeRateRepo: NewPgxExchangeRateRepository(db),
		PreferenceRepo:   NewPgxCurrencyPreferenceRepository(db),
		Records:          NewPgxRecordStoreProvider(db),
		KV:               kv,
	}
}
