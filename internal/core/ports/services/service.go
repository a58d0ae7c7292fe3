package services

// ServiceContainer holds instances of all the application services.
// It is the entry point used by the handlers.
type ServiceContainer struct {
	Currency     CurrencySvcFacade
	ExchangeRate ExchangeRateSvcFacade
	Preferences  CurrencyPreferenceSvc
	RateCache    RateCacheSvc
	Converter    BulkConverterSvc
	Conversions  ConversionRegistrySvc
}
