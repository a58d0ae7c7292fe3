package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	CurrencyRepo     CurrencyRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	PreferenceRepo   CurrencyPreferenceRepositoryFacade
	Records          RecordStoreProvider
	KV               KeyValueStore
}
