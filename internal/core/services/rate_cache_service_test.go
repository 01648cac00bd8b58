package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/core/services"
)

type RateCacheServiceTestSuite struct {
	suite.Suite
	fiatSource   *stubRateSource
	cryptoSource *stubRateSource
	cache        *services.RateCacheService
}

func (suite *RateCacheServiceTestSuite) SetupTest() {
	now := time.Now().UTC()
	suite.fiatSource = &stubRateSource{
		name: "fiat-stub",
		kind: domain.Fiat,
		entries: []domain.RateEntry{
			{Currency: "EUR", PriceInBase: decimal.RequireFromString("1.1"), FetchedAt: now, Source: "fiat-stub"},
			{Currency: "GBP", PriceInBase: decimal.RequireFromString("1.25"), FetchedAt: now, Source: "fiat-stub"},
		},
	}
	suite.cryptoSource = &stubRateSource{
		name: "crypto-stub",
		kind: domain.Crypto,
		entries: []domain.RateEntry{
			{Currency: "BTC", PriceInBase: decimal.RequireFromString("60000"), FetchedAt: now, Source: "crypto-stub"},
		},
	}
	suite.cache = services.NewRateCacheService(
		domain.BaseCurrencyCode,
		[]portssvc.RateSource{suite.fiatSource, suite.cryptoSource},
		nil, 10, testLogger(),
	)
}

func (suite *RateCacheServiceTestSuite) TestCurrent_BeforeFirstRefresh() {
	table := suite.cache.Current()
	suite.Require().NotNil(table)
	suite.Equal(domain.BaseCurrencyCode, table.Base)
	suite.Len(table.Entries, 1)

	entry, ok := table.Rate(domain.BaseCurrencyCode)
	suite.Require().True(ok)
	suite.True(entry.PriceInBase.Equal(decimal.NewFromInt(1)))
	suite.Equal(domain.SourceBase, entry.Source)
}

func (suite *RateCacheServiceTestSuite) TestRefresh_MergesAllSources() {
	table, err := suite.cache.Refresh(context.Background())

	suite.Require().NoError(err)
	suite.Len(table.Entries, 4) // USD pinned + EUR + GBP + BTC

	eur, ok := table.Rate("EUR")
	suite.Require().True(ok)
	suite.True(eur.PriceInBase.Equal(decimal.RequireFromString("1.1")))

	btc, ok := table.Rate("BTC")
	suite.Require().True(ok)
	suite.True(btc.PriceInBase.Equal(decimal.RequireFromString("60000")))

	suite.Same(table, suite.cache.Current())
}

func (suite *RateCacheServiceTestSuite) TestRefresh_PartialFailureKeepsOldEntries() {
	_, err := suite.cache.Refresh(context.Background())
	suite.Require().NoError(err)

	// Second refresh: crypto source fails, fiat source moves EUR.
	suite.cryptoSource.err = apperrors.NewFetchError("crypto-stub", apperrors.FetchTimeout, errors.New("deadline exceeded"))
	suite.fiatSource.entries = []domain.RateEntry{
		{Currency: "EUR", PriceInBase: decimal.RequireFromString("1.2"), FetchedAt: time.Now().UTC(), Source: "fiat-stub"},
	}

	table, err := suite.cache.Refresh(context.Background())
	suite.Require().NoError(err)

	eur, _ := table.Rate("EUR")
	suite.True(eur.PriceInBase.Equal(decimal.RequireFromString("1.2")))

	// BTC survives from the previous cycle.
	btc, ok := table.Rate("BTC")
	suite.Require().True(ok)
	suite.True(btc.PriceInBase.Equal(decimal.RequireFromString("60000")))

	// GBP was absent from the second fiat payload but is carried over too.
	_, ok = table.Rate("GBP")
	suite.True(ok)
}

func (suite *RateCacheServiceTestSuite) TestRefresh_AllSourcesFailedRetainsTable() {
	before, err := suite.cache.Refresh(context.Background())
	suite.Require().NoError(err)

	suite.fiatSource.err = errors.New("boom")
	suite.cryptoSource.err = errors.New("boom")

	table, err := suite.cache.Refresh(context.Background())
	suite.Require().ErrorIs(err, apperrors.ErrAllSourcesFailed)
	suite.Nil(table)

	// The published table is exactly the previous one, not a copy.
	suite.Same(before, suite.cache.Current())
}

func (suite *RateCacheServiceTestSuite) TestConvert_IdentityAndCross() {
	_, err := suite.cache.Refresh(context.Background())
	suite.Require().NoError(err)

	hundred := decimal.NewFromInt(100)

	same, err := suite.cache.Convert(hundred, "EUR", "EUR")
	suite.Require().NoError(err)
	suite.True(same.Equal(hundred))

	// 100 EUR -> USD at 1.1.
	usd, err := suite.cache.Convert(hundred, "EUR", "USD")
	suite.Require().NoError(err)
	suite.True(usd.Equal(decimal.RequireFromString("110")))

	// Cross rate EUR -> GBP goes through the base: 1.1 / 1.25.
	gbp, err := suite.cache.Convert(hundred, "EUR", "GBP")
	suite.Require().NoError(err)
	suite.True(gbp.Equal(decimal.RequireFromString("88")))
}

func (suite *RateCacheServiceTestSuite) TestConvert_UnknownCurrency() {
	_, err := suite.cache.Convert(decimal.NewFromInt(1), "XUW", "USD")
	suite.Require().ErrorIs(err, apperrors.ErrUnknownCurrency)

	// RUB is a supported code, but no source has quoted it yet.
	_, err = suite.cache.Convert(decimal.NewFromInt(1), "RUB", "USD")
	suite.Require().ErrorIs(err, apperrors.ErrUnknownCurrency)
}

func (suite *RateCacheServiceTestSuite) TestIsStale() {
	suite.fiatSource.entries = []domain.RateEntry{
		{Currency: "EUR", PriceInBase: decimal.RequireFromString("1.1"), FetchedAt: time.Now().Add(-2 * time.Hour), Source: "fiat-stub"},
	}
	suite.cryptoSource.err = errors.New("down")

	_, err := suite.cache.Refresh(context.Background())
	suite.Require().NoError(err)

	suite.True(suite.cache.IsStale(time.Hour))
	suite.False(suite.cache.IsStale(3*time.Hour))
}

func (suite *RateCacheServiceTestSuite) TestAsOf_IsOldestFetchedEntry() {
	now := time.Now().UTC()
	old := now.Add(-30 * time.Minute)
	suite.fiatSource.entries = []domain.RateEntry{
		{Currency: "EUR", PriceInBase: decimal.RequireFromString("1.1"), FetchedAt: old, Source: "fiat-stub"},
	}
	suite.cryptoSource.entries = []domain.RateEntry{
		{Currency: "BTC", PriceInBase: decimal.RequireFromString("60000"), FetchedAt: now, Source: "crypto-stub"},
	}

	table, err := suite.cache.Refresh(context.Background())
	suite.Require().NoError(err)
	suite.True(table.AsOf.Equal(old))
}

func (suite *RateCacheServiceTestSuite) TestConcurrentRefresh_SingleCycle() {
	block := make(chan struct{})
	slow := &blockingRateSource{release: block, entries: suite.fiatSource.entries}
	cache := services.NewRateCacheService(
		domain.BaseCurrencyCode,
		[]portssvc.RateSource{slow},
		nil, 10, testLogger(),
	)

	const callers = 5
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := cache.Refresh(context.Background())
			suite.NoError(err)
		}()
	}

	// Give every goroutine time to reach the in-flight guard, then let the
	// single fetch finish.
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	suite.Equal(1, slow.fetchCount())
}

func (suite *RateCacheServiceTestSuite) TestHistory_NewestFirstAndBounded() {
	cache := services.NewRateCacheService(
		domain.BaseCurrencyCode,
		[]portssvc.RateSource{suite.fiatSource},
		nil, 3, testLogger(),
	)

	for i := 0; i < 5; i++ {
		_, err := cache.Refresh(context.Background())
		suite.Require().NoError(err)
	}

	history := cache.History()
	suite.Len(history, 3)
	suite.Same(cache.Current(), history[0])
	for i := 1; i < len(history); i++ {
		suite.False(history[i-1].AsOf.Before(history[i].AsOf))
	}
}

func (suite *RateCacheServiceTestSuite) TestSummary_CountsBySource() {
	_, err := suite.cache.Refresh(context.Background())
	suite.Require().NoError(err)

	summary := suite.cache.Summary()
	suite.Equal(domain.BaseCurrencyCode, summary.Base)
	suite.Equal(4, summary.EntryCount)
	suite.Equal(2, summary.CountBySource["fiat-stub"])
	suite.Equal(1, summary.CountBySource["crypto-stub"])
	suite.Equal(1, summary.CountBySource[string(domain.SourceBase)])
}

func (suite *RateCacheServiceTestSuite) TestWarmFromStore() {
	ctx := context.Background()
	mockRepo := new(MockRateRepository)
	stored := []domain.RateEntry{
		{Currency: "EUR", PriceInBase: decimal.RequireFromString("1.08"), FetchedAt: time.Now().Add(-time.Hour), Source: domain.SourceExchangeRateAPI},
	}
	mockRepo.On("LoadLatestRates", ctx).Return(stored, nil).Once()

	cache := services.NewRateCacheService(domain.BaseCurrencyCode, nil, mockRepo, 10, testLogger())
	cache.WarmFromStore(ctx)

	eur, ok := cache.Current().Rate("EUR")
	suite.Require().True(ok)
	suite.True(eur.PriceInBase.Equal(decimal.RequireFromString("1.08")))
	mockRepo.AssertExpectations(suite.T())
}

func (suite *RateCacheServiceTestSuite) TestListRateHistory_UnknownCurrency() {
	_, err := suite.cache.ListRateHistory(context.Background(), "XUW", 10)
	suite.Require().ErrorIs(err, apperrors.ErrUnknownCurrency)
}

// blockingRateSource parks every Fetch until release is closed, to force
// refresh callers to pile up on the in-flight guard.
type blockingRateSource struct {
	release <-chan struct{}
	entries []domain.RateEntry

	mu    sync.Mutex
	count int
}

func (s *blockingRateSource) Name() string              { return "blocking-stub" }
func (s *blockingRateSource) Kind() domain.CurrencyKind { return domain.Fiat }

func (s *blockingRateSource) Fetch(ctx context.Context, currencies []domain.Currency) ([]domain.RateEntry, error) {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	<-s.release
	return s.entries, nil
}

func (s *blockingRateSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func TestRateCacheServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateCacheServiceTestSuite))
}
