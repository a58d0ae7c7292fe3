package services

import (
	"log/slog"

	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/SscSPs/mma_currency/internal/platform/config"
)

// Runtime holds the long-lived services the entrypoint must warm up and shut down.
type Runtime struct {
	RateCache *RateCache
	Registry  *ConversionRegistry
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, source portssvc.RateSource, monitor portssvc.ConnectivityMonitor, logger *slog.Logger) (*portssvc.ServiceContainer, *Runtime) {
	rateCache := NewRateCache(source,
		WithRateTTL(cfg.RateCacheTTL),
		WithCurrencyTTL(cfg.CurrencyCacheTTL),
		WithRateSnapshots(repos.KV),
	)
	converter := NewBulkConverter(source, rateCache)
	preferences := NewCurrencyPreferenceService(repos.PreferenceRepo)
	registry := NewConversionRegistry(repos.KV, repos.Records, converter, monitor, logger).
		WithPrimaryCurrency(preferences)

	container := &portssvc.ServiceContainer{
		RateCache:   rateCache,
		Converter:   converter,
		Conversions: registry,
		Preferences: preferences,
	}
	currencyService := NewCurrencyService(repos.CurrencyRepo, rateCache)
	container.Currency = currencyService
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, currencyService, rateCache)

	return container, &Runtime{RateCache: rateCache, Registry: registry}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RateCacheSvc          = (*RateCache)(nil)
	_ portssvc.BulkConverterSvc      = (*BulkConverter)(nil)
	_ portssvc.ConversionManagerSvc  = (*ConversionManager)(nil)
	_ portssvc.ConversionRegistrySvc = (*ConversionRegistry)(nil)
	_ portssvc.CurrencySvcFacade     = (*CurrencyService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)
	_ portssvc.CurrencyPreferenceSvc = (*CurrencyPreferenceService)(nil)
)
