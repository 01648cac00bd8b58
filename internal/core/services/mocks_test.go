package services_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock PortfolioRepository ---

type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID string) (*domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func (m *MockPortfolioRepository) SaveTrade(ctx context.Context, portfolio domain.Portfolio, receipt domain.TradeReceipt) error {
	args := m.Called(ctx, portfolio, receipt)
	return args.Error(0)
}

// --- Mock ReceiptRepository ---

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) ListReceiptsByUserID(ctx context.Context, userID string, limit int) ([]domain.TradeReceipt, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TradeReceipt), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock RateRepository ---

type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) SaveRateEntries(ctx context.Context, entries []domain.RateEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockRateRepository) LoadLatestRates(ctx context.Context) ([]domain.RateEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateEntry), args.Error(1)
}

func (m *MockRateRepository) ListRateHistory(ctx context.Context, currencyCode string, limit int) ([]domain.RateEntry, error) {
	args := m.Called(ctx, currencyCode, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateEntry), args.Error(1)
}

// --- Mock PortfolioWriterSvc ---

type MockPortfolioWriterSvc struct {
	mock.Mock
}

func (m *MockPortfolioWriterSvc) CreatePortfolio(ctx context.Context, userID string) (*domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioWriterSvc) Deposit(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.Portfolio, error) {
	args := m.Called(ctx, userID, currencyCode, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

// --- Stub RateSource ---

// stubRateSource returns a canned set of entries, or an error, and counts
// how often Fetch ran.
type stubRateSource struct {
	name       string
	kind       domain.CurrencyKind
	entries    []domain.RateEntry
	err        error
	fetchCount int
}

func (s *stubRateSource) Name() string              { return s.name }
func (s *stubRateSource) Kind() domain.CurrencyKind { return s.kind }

func (s *stubRateSource) Fetch(ctx context.Context, currencies []domain.Currency) ([]domain.RateEntry, error) {
	s.fetchCount++
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}
