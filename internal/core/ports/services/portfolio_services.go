package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// PortfolioReaderSvc defines read operations on portfolios
type PortfolioReaderSvc interface {
	// GetPortfolio retrieves a user's raw wallet balances.
	GetPortfolio(ctx context.Context, userID string) (*domain.Portfolio, error)

	// Valuate prices every non-zero balance in the base currency using one
	// rate table snapshot. A conversion failure for any single currency
	// fails the whole valuation, naming the currency.
	Valuate(ctx context.Context, userID string) (*domain.PortfolioValuation, error)
}

// PortfolioWriterSvc defines mutating operations on portfolios
type PortfolioWriterSvc interface {
	// CreatePortfolio creates a portfolio with the configured seed balance
	// in the base currency. Called once, at user registration.
	CreatePortfolio(ctx context.Context, userID string) (*domain.Portfolio, error)

	// Deposit credits amount of the given currency to the user's wallet.
	Deposit(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.Portfolio, error)
}

// PortfolioSvcFacade combines all portfolio-related service interfaces
type PortfolioSvcFacade interface {
	PortfolioReaderSvc
	PortfolioWriterSvc
}
