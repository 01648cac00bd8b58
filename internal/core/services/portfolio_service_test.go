package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/core/services"
)

type PortfolioServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockPortfolioRepository
	rateCache *services.RateCacheService
	service   *services.PortfolioService
	userID    string
}

func (suite *PortfolioServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPortfolioRepository)
	suite.userID = "user-1"

	now := time.Now().UTC()
	source := &stubRateSource{
		name: "stub",
		kind: domain.Fiat,
		entries: []domain.RateEntry{
			{Currency: "EUR", PriceInBase: decimal.RequireFromString("1.1"), FetchedAt: now, Source: "stub"},
			{Currency: "BTC", PriceInBase: decimal.RequireFromString("60000"), FetchedAt: now, Source: "stub"},
		},
	}
	suite.rateCache = services.NewRateCacheService(
		domain.BaseCurrencyCode, []portssvc.RateSource{source}, nil, 10, testLogger(),
	)
	_, err := suite.rateCache.Refresh(context.Background())
	suite.Require().NoError(err)

	suite.service = services.NewPortfolioService(
		suite.mockRepo, suite.rateCache, services.NewUserLockRegistry(),
		decimal.NewFromInt(1000), testLogger(),
	)
}

func (suite *PortfolioServiceTestSuite) TestCreatePortfolio_SeedsBaseBalance() {
	ctx := context.Background()
	suite.mockRepo.On("SavePortfolio", ctx, mock.AnythingOfType("domain.Portfolio")).Return(nil).Once()

	portfolio, err := suite.service.CreatePortfolio(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.BaseCurrencyCode, portfolio.BaseCurrency)
	suite.True(portfolio.Wallet.Balance("USD").Equal(decimal.NewFromInt(1000)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PortfolioServiceTestSuite) TestValuate() {
	ctx := context.Background()
	portfolio := &domain.Portfolio{
		UserID:       suite.userID,
		BaseCurrency: domain.BaseCurrencyCode,
		Wallet: domain.Wallet{
			"USD": decimal.NewFromInt(500),
			"EUR": decimal.NewFromInt(100),
			"BTC": decimal.RequireFromString("0.01"),
			"GBP": decimal.Zero, // zero balances are skipped
		},
	}
	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()

	valuation, err := suite.service.Valuate(ctx, suite.userID)
	suite.Require().NoError(err)

	// 500 USD + 110 USD (EUR) + 600 USD (BTC).
	suite.True(valuation.TotalValue.Equal(decimal.RequireFromString("1210")))
	suite.Len(valuation.Positions, 3)

	// Positions come back sorted by currency code.
	suite.Equal("BTC", valuation.Positions[0].Currency)
	suite.Equal("EUR", valuation.Positions[1].Currency)
	suite.Equal("USD", valuation.Positions[2].Currency)
	suite.Equal(domain.Crypto, valuation.Positions[0].Kind)
	suite.True(valuation.Positions[0].ValueInBase.Equal(decimal.RequireFromString("600")))
}

func (suite *PortfolioServiceTestSuite) TestValuate_FailsOnUnquotedCurrency() {
	ctx := context.Background()
	portfolio := &domain.Portfolio{
		UserID:       suite.userID,
		BaseCurrency: domain.BaseCurrencyCode,
		Wallet: domain.Wallet{
			"USD": decimal.NewFromInt(500),
			"RUB": decimal.NewFromInt(10), // supported code, no quote in the table
		},
	}
	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()

	_, err := suite.service.Valuate(ctx, suite.userID)
	suite.Require().ErrorIs(err, apperrors.ErrUnknownCurrency)
	suite.Contains(err.Error(), "RUB")
}

func (suite *PortfolioServiceTestSuite) TestDeposit() {
	ctx := context.Background()
	portfolio := &domain.Portfolio{
		UserID:       suite.userID,
		BaseCurrency: domain.BaseCurrencyCode,
		Wallet:       domain.Wallet{"USD": decimal.NewFromInt(100)},
	}
	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.mockRepo.On("SavePortfolio", ctx, mock.AnythingOfType("domain.Portfolio")).Return(nil).Once()

	got, err := suite.service.Deposit(ctx, suite.userID, "EUR", decimal.NewFromInt(25))
	suite.Require().NoError(err)
	suite.True(got.Wallet.Balance("EUR").Equal(decimal.NewFromInt(25)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PortfolioServiceTestSuite) TestDeposit_Validation() {
	ctx := context.Background()

	_, err := suite.service.Deposit(ctx, suite.userID, "EUR", decimal.Zero)
	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = suite.service.Deposit(ctx, suite.userID, "XUW", decimal.NewFromInt(1))
	suite.Require().ErrorIs(err, apperrors.ErrUnknownCurrency)

	suite.mockRepo.AssertNotCalled(suite.T(), "FindPortfolioByUserID", mock.Anything, mock.Anything)
}

func TestPortfolioServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PortfolioServiceTestSuite))
}
