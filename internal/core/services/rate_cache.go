package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRateTTL     = time.Hour
	DefaultCurrencyTTL = 24 * time.Hour

	// RateCacheSnapshotKey is the key-value entry holding the persisted rate cache.
	RateCacheSnapshotKey = "rate_cache"

	currenciesFlightKey = "currencies"
)

// RateCache memoizes exchange rates and the currency catalog in front of a RateSource.
// Rates are cached per direction; (A,B) and (B,A) are independent entries.
type RateCache struct {
	BaseService
	source      portssvc.RateSource
	snapshots   portsrepo.KeyValueStore
	now         func() time.Time
	rateTTL     time.Duration
	currencyTTL time.Duration

	mu                  sync.RWMutex
	rates               map[string]domain.CachedRate
	currencies          []domain.Currency
	currenciesFetchedAt time.Time

	flights singleflight.Group
}

// RateCacheOption configures a RateCache.
type RateCacheOption func(*RateCache)

// WithRateTTL overrides how long a fetched rate stays fresh.
func WithRateTTL(ttl time.Duration) RateCacheOption {
	return func(c *RateCache) {
		if ttl > 0 {
			c.rateTTL = ttl
		}
	}
}

// WithCurrencyTTL overrides how long the fetched currency list stays fresh.
func WithCurrencyTTL(ttl time.Duration) RateCacheOption {
	return func(c *RateCache) {
		if ttl > 0 {
			c.currencyTTL = ttl
		}
	}
}

// WithRateCacheClock replaces time.Now, for tests.
func WithRateCacheClock(now func() time.Time) RateCacheOption {
	return func(c *RateCache) {
		c.now = now
	}
}

// WithRateSnapshots persists cached rates to kv so they survive restarts.
func WithRateSnapshots(kv portsrepo.KeyValueStore) RateCacheOption {
	return func(c *RateCache) {
		c.snapshots = kv
	}
}

// NewRateCache creates a RateCache reading through source.
func NewRateCache(source portssvc.RateSource, options ...RateCacheOption) *RateCache {
	c := &RateCache{
		source:      source,
		now:         time.Now,
		rateTTL:     DefaultRateTTL,
		currencyTTL: DefaultCurrencyTTL,
		rates:       make(map[string]domain.CachedRate),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func rateKey(from, to string) string {
	return from + ":" + to
}

// GetRate returns the rate from one currency to another. It never fails: when the
// source is unreachable it serves an expired entry, then the inverse of a cached
// reverse entry, then a neutral 1. The quote origin says which one was served.
func (c *RateCache) GetRate(ctx context.Context, from, to string) domain.RateQuote {
	from, to = domain.NormalizeCode(from), domain.NormalizeCode(to)
	if from == to {
		return domain.RateQuote{From: from, To: to, Rate: decimal.NewFromInt(1), FetchedAt: c.now(), Origin: domain.RateOriginIdentity}
	}

	key := rateKey(from, to)
	c.mu.RLock()
	entry, ok := c.rates[key]
	c.mu.RUnlock()
	if ok && !entry.Expired(c.now(), c.rateTTL) {
		return quoteFrom(entry, domain.RateOriginCache)
	}

	fetched, err, _ := c.flights.Do(key, func() (any, error) {
		rate, err := c.source.FetchRate(ctx, from, to)
		if err != nil {
			return nil, err
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("%w: source returned non-positive rate %s for %s", apperrors.ErrUnavailable, rate, key)
		}
		fresh := domain.CachedRate{From: from, To: to, Rate: rate, FetchedAt: c.now()}
		c.mu.Lock()
		c.rates[key] = fresh
		c.mu.Unlock()
		c.saveSnapshot(ctx)
		return fresh, nil
	})
	if err == nil {
		return quoteFrom(fetched.(domain.CachedRate), domain.RateOriginLive)
	}

	c.LogWarn(ctx, err, "Rate fetch failed, serving cached or neutral rate", slog.String("from", from), slog.String("to", to))

	c.mu.RLock()
	entry, ok = c.rates[key]
	reverse, reverseOK := c.rates[rateKey(to, from)]
	c.mu.RUnlock()
	if ok {
		return quoteFrom(entry, domain.RateOriginStale)
	}
	if reverseOK && reverse.Rate.IsPositive() {
		return domain.RateQuote{
			From:      from,
			To:        to,
			Rate:      decimal.NewFromInt(1).Div(reverse.Rate),
			FetchedAt: reverse.FetchedAt,
			Origin:    domain.RateOriginInverse,
		}
	}
	return domain.RateQuote{From: from, To: to, Rate: decimal.NewFromInt(1), FetchedAt: c.now(), Origin: domain.RateOriginFallback}
}

func quoteFrom(entry domain.CachedRate, origin domain.RateOrigin) domain.RateQuote {
	return domain.RateQuote{From: entry.From, To: entry.To, Rate: entry.Rate, FetchedAt: entry.FetchedAt, Origin: origin}
}

// GetCurrencies returns the currency catalog, refreshing it once it is older than the
// currency TTL. On fetch failure it serves the last good list, or the built-in defaults.
func (c *RateCache) GetCurrencies(ctx context.Context) []domain.Currency {
	c.mu.RLock()
	cached, fetchedAt := c.currencies, c.currenciesFetchedAt
	c.mu.RUnlock()
	if cached != nil && c.now().Sub(fetchedAt) < c.currencyTTL {
		return cloneCurrencies(cached)
	}

	fetched, err, _ := c.flights.Do(currenciesFlightKey, func() (any, error) {
		list, err := c.source.FetchCurrencies(ctx)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: source returned an empty currency list", apperrors.ErrUnavailable)
		}
		c.mu.Lock()
		c.currencies = cloneCurrencies(list)
		c.currenciesFetchedAt = c.now()
		c.mu.Unlock()
		return list, nil
	})
	if err == nil {
		return cloneCurrencies(fetched.([]domain.Currency))
	}

	c.LogWarn(ctx, err, "Currency list fetch failed, serving cached or default currencies")
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.currencies != nil {
		return cloneCurrencies(c.currencies)
	}
	return domain.DefaultCurrencies()
}

// ClearCache drops every cached rate and currency, including the persisted snapshot.
func (c *RateCache) ClearCache(ctx context.Context) {
	c.mu.Lock()
	c.rates = make(map[string]domain.CachedRate)
	c.currencies = nil
	c.currenciesFetchedAt = time.Time{}
	c.mu.Unlock()

	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Delete(ctx, RateCacheSnapshotKey); err != nil {
		c.LogWarn(ctx, err, "Failed to delete rate cache snapshot")
	}
}

// Warm loads the persisted snapshot, if any, and returns how many rates it restored.
// Restored entries keep their original fetch time, so expired ones are refetched on use.
func (c *RateCache) Warm(ctx context.Context) (int, error) {
	if c.snapshots == nil {
		return 0, nil
	}
	raw, found, err := c.snapshots.Get(ctx, RateCacheSnapshotKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read rate cache snapshot: %w", err)
	}
	if !found {
		return 0, nil
	}
	var entries []domain.CachedRate
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return 0, fmt.Errorf("failed to decode rate cache snapshot: %w", err)
	}

	restored := 0
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		if e.From == "" || e.To == "" || e.From == e.To || !e.Rate.IsPositive() {
			continue
		}
		key := rateKey(e.From, e.To)
		if current, ok := c.rates[key]; ok && current.FetchedAt.After(e.FetchedAt) {
			continue
		}
		c.rates[key] = e
		restored++
	}
	return restored, nil
}

func (c *RateCache) saveSnapshot(ctx context.Context) {
	if c.snapshots == nil {
		return
	}
	c.mu.RLock()
	entries := make([]domain.CachedRate, 0, len(c.rates))
	for _, e := range c.rates {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	raw, err := json.Marshal(entries)
	if err == nil {
		err = c.snapshots.Set(ctx, RateCacheSnapshotKey, string(raw))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		c.LogWarn(ctx, err, "Failed to persist rate cache snapshot")
	}
}

func cloneCurrencies(in []domain.Currency) []domain.Currency {
	return append([]domain.Currency(nil), in...)
}
