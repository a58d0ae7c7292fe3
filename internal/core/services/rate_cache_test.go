package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/mma_currency/internal/adapters/kvstore"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	"github.com/SscSPs/mma_currency/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RateCacheTestSuite struct {
	suite.Suite
	source *MockRateSource
	clock  *testClock
	kv     *kvstore.MemoryStore
	cache  *services.RateCache
}

func (suite *RateCacheTestSuite) SetupTest() {
	suite.source = new(MockRateSource)
	suite.clock = newTestClock()
	suite.kv = kvstore.NewMemoryStore()
	suite.cache = services.NewRateCache(suite.source,
		services.WithRateCacheClock(suite.clock.Now),
		services.WithRateSnapshots(suite.kv),
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *RateCacheTestSuite) TestGetRate_Identity() {
	quote := suite.cache.GetRate(context.Background(), "usd", "USD")

	suite.Equal(domain.RateOriginIdentity, quote.Origin)
	suite.True(dec("1").Equal(quote.Rate))
	suite.source.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateCacheTestSuite) TestGetRate_CachesWithinTTL() {
	ctx := context.Background()
	suite.source.On("FetchRate", mock.Anything, "USD", "EUR").Return(dec("0.9"), nil).Once()

	first := suite.cache.GetRate(ctx, "USD", "EUR")
	suite.clock.Advance(59 * time.Minute)
	second := suite.cache.GetRate(ctx, "USD", "EUR")

	suite.Equal(domain.RateOriginLive, first.Origin)
	suite.Equal(domain.RateOriginCache, second.Origin)
	suite.True(dec("0.9").Equal(second.Rate))
	suite.source.AssertNumberOfCalls(suite.T(), "FetchRate", 1)
}

func (suite *RateCacheTestSuite) TestGetRate_RefetchesOnceAfterTTL() {
	ctx := context.Background()
	suite.source.On("FetchRate", mock.Anything, "USD", "EUR").Return(dec("0.9"), nil).Once()
	suite.source.On("FetchRate", mock.Anything, "USD", "EUR").Return(dec("0.95"), nil).Once()

	suite.cache.GetRate(ctx, "USD", "EUR")
	suite.clock.Advance(61 * time.Minute)
	refreshed := suite.cache.GetRate(ctx, "USD", "EUR")
	again := suite.cache.GetRate(ctx, "USD", "EUR")

	suite.Equal(domain.RateOriginLive, refreshed.Origin)
	suite.True(dec("0.95").Equal(refreshed.Rate))
	suite.Equal(domain.RateOriginCache, again.Origin)
	suite.source.AssertNumberOfCalls(suite.T(), "FetchRate", 2)
}

func (suite *RateCacheTestSuite) TestGetRate_DirectionsAreIndependent() {
	ctx := context.Background()
	suite.source.On("FetchRate", mock.Anything, "USD", "EUR").Return(dec("0.9"), nil).Once()
	suite.source.On("FetchRate", mock.Anything, "EUR", "USD").Return(dec("1.12"), nil).Once()

	suite.cache.GetRate(ctx, "USD", "EUR")
	reverse := suite.cache.GetRate(ctx, "EUR", "USD")

	suite.Equal(domain.RateOriginLive, reverse.Origin)
	suite.True(dec("1.12").Equal(reverse.Rate))
	suite.source.AssertExpectations(suite.T())
}

func (suite *RateCacheTestSuite) TestGetRate_ServesStaleOnFailure() {
	ctx := context.Background()
	suite.source.On("FetchRate", mock.Anything, "USD", "EUR").Return(dec("0.9"), nil).Once()
	suite.source.On("FetchRate", mock.Anything, "USD", "EUR").Return(decimal.Zero, errors.New("timeout")).Once()

	suite.cache.GetRate(ctx, "USD", "EUR")
	suite.clock.Advance(2 * time.Hour)
	quote := suite.cache.GetRate(ctx, "USD", "EUR")

	suite.Equal(domain.RateOriginStale, quote.Origin)
	suite.True(dec("0.9").Equal(quote.Rate))
	suite.True(quote.Reliable())
	suite.False(quote.Live())
}

func (suite *RateCacheTestSuite) TestGetRate_ServesInverseOfReversePair() {
	ctx := context.Background()
	suite.source.On("FetchRate", mock.Anything, "EUR", "USD").Return(dec("1.25"), nil).Once()
	suite.source.On("FetchRate", mock.Anything, "USD", "EUR").Return(decimal.Zero, errors.New("offline")).Once()

	suite.cache.GetRate(ctx, "EUR", "USD")
	quote := suite.cache.GetRate(ctx, "USD", "EUR")

	suite.Equal(domain.RateOriginInverse, quote.Origin)
	suite.True(dec("0.8").Equal(quote.Rate))
}

func (suite *RateCacheTestSuite) TestGetRate_FallsBackToNeutralRate() {
	suite.source.On("FetchRate", mock.Anything, "USD", "NPR").Return(decimal.Zero, errors.New("offline")).Once()

	quote := suite.cache.GetRate(context.Background(), "USD", "NPR")

	suite.Equal(domain.RateOriginFallback, quote.Origin)
	suite.True(dec("1").Equal(quote.Rate))
	suite.False(quote.Reliable())
}

func (suite *RateCacheTestSuite) TestGetRate_RejectsNonPositiveRate() {
	suite.source.On("FetchRate", mock.Anything, "USD", "JPY").Return(decimal.Zero, nil).Once()

	quote := suite.cache.GetRate(context.Background(), "USD", "JPY")

	suite.Equal(domain.RateOriginFallback, quote.Origin)
}

func (suite *RateCacheTestSuite) TestGetCurrencies_DefaultsWhenNeverFetched() {
	suite.source.On("FetchCurrencies", mock.Anything).Return(nil, errors.New("offline")).Once()

	list := suite.cache.GetCurrencies(context.Background())

	suite.Equal(domain.DefaultCurrencies(), list)
}

func (suite *RateCacheTestSuite) TestGetCurrencies_ServesLastGoodList() {
	ctx := context.Background()
	fetched := []domain.Currency{domain.CurrencyFromISO("USD", "US Dollar"), domain.CurrencyFromISO("BTC", "Bitcoin")}
	suite.source.On("FetchCurrencies", mock.Anything).Return(fetched, nil).Once()
	suite.source.On("FetchCurrencies", mock.Anything).Return(nil, errors.New("offline")).Once()

	first := suite.cache.GetCurrencies(ctx)
	cached := suite.cache.GetCurrencies(ctx)
	suite.clock.Advance(25 * time.Hour)
	stale := suite.cache.GetCurrencies(ctx)

	suite.Equal(fetched, first)
	suite.Equal(fetched, cached)
	suite.Equal(fetched, stale)
	suite.source.AssertNumberOfCalls(suite.T(), "FetchCurrencies", 2)
}

func (suite *RateCacheTestSuite) TestGetCurrencies_EmptyListIsAFailure() {
	suite.source.On("FetchCurrencies", mock.Anything).Return([]domain.Currency{}, nil).Once()

	list := suite.cache.GetCurrencies(context.Background())

	suite.Equal(domain.DefaultCurrencies(), list)
}

func (suite *RateCacheTestSuite) TestClearCache_ForcesRefetch() {
	ctx := context.Background()
	suite.source.On("FetchRate", mock.Anything, "USD", "EUR").Return(dec("0.9"), nil).Twice()

	suite.cache.GetRate(ctx, "USD", "EUR")
	_, found, _ := suite.kv.Get(ctx, services.RateCacheSnapshotKey)
	suite.True(found)

	suite.cache.ClearCache(ctx)
	_, found, _ = suite.kv.Get(ctx, services.RateCacheSnapshotKey)
	suite.False(found)

	quote := suite.cache.GetRate(ctx, "USD", "EUR")
	suite.Equal(domain.RateOriginLive, quote.Origin)
	suite.source.AssertNumberOfCalls(suite.T(), "FetchRate", 2)
}

func (suite *RateCacheTestSuite) TestWarm_RestoresSnapshot() {
	ctx := context.Background()
	suite.source.On("FetchRate", mock.Anything, "USD", "GBP").Return(dec("0.79"), nil).Once()
	suite.cache.GetRate(ctx, "USD", "GBP")

	restartedSource := new(MockRateSource)
	restarted := services.NewRateCache(restartedSource,
		services.WithRateCacheClock(suite.clock.Now),
		services.WithRateSnapshots(suite.kv),
	)
	n, err := restarted.Warm(ctx)
	suite.Require().NoError(err)
	suite.Equal(1, n)

	quote := restarted.GetRate(ctx, "USD", "GBP")
	suite.Equal(domain.RateOriginCache, quote.Origin)
	suite.True(dec("0.79").Equal(quote.Rate))
	restartedSource.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateCacheTestSuite) TestWarm_NoSnapshot() {
	n, err := suite.cache.Warm(context.Background())

	suite.NoError(err)
	suite.Zero(n)
}

func TestRateCacheTestSuite(t *testing.T) {
	suite.Run(t, new(RateCacheTestSuite))
}
