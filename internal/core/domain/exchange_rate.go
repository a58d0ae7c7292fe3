package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate from one currency to another.
// Rates are directional: no relation between (A,B) and (B,A) is assumed.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}

// RateOrigin tells where a served rate came from.
type RateOrigin string

const (
	RateOriginIdentity RateOrigin = "identity" // from == to
	RateOriginCache    RateOrigin = "cache"    // fresh cache hit
	RateOriginLive     RateOrigin = "live"     // fetched during this call
	RateOriginStale    RateOrigin = "stale"    // expired cache entry served after a failed fetch
	RateOriginInverse  RateOrigin = "inverse"  // 1/rate of a cached reverse pair after a failed fetch
	RateOriginFallback RateOrigin = "fallback" // neutral 1, nothing known about the pair
)

// RateQuote is the answer of a rate lookup.
type RateQuote struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Origin    RateOrigin      `json:"origin"`
}

// Live reports whether the rate is current (identity, fresh cache or a fetch made now).
func (q RateQuote) Live() bool {
	switch q.Origin {
	case RateOriginIdentity, RateOriginCache, RateOriginLive:
		return true
	}
	return false
}

// Reliable is false only for the neutral fallback rate.
func (q RateQuote) Reliable() bool {
	return q.Origin != RateOriginFallback
}

// CachedRate is one entry of the rate cache.
type CachedRate struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// Expired reports whether the entry is older than ttl at now.
func (r CachedRate) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.FetchedAt) >= ttl
}
