package repositories

import (
	"context"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// PortfolioReader defines read operations for portfolio data
type PortfolioReader interface {
	// FindPortfolioByUserID retrieves a user's portfolio with all wallet balances.
	FindPortfolioByUserID(ctx context.Context, userID string) (*domain.Portfolio, error)
}

// PortfolioWriter defines write operations for portfolio data
type PortfolioWriter interface {
	// SavePortfolio persists every wallet balance of the portfolio.
	SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error

	// SaveTrade persists the outcome of one trade: the two affected wallet
	// balances and the appended receipt, atomically. Either all three rows
	// are written or none is.
	SaveTrade(ctx context.Context, portfolio domain.Portfolio, receipt domain.TradeReceipt) error
}

// PortfolioRepositoryFacade combines all portfolio-related repository interfaces
type PortfolioRepositoryFacade interface {
	PortfolioReader
	PortfolioWriter
}

// ReceiptReader defines read operations for trade receipt history
type ReceiptReader interface {
	// ListReceiptsByUserID retrieves a user's trade receipts, newest first.
	ListReceiptsByUserID(ctx context.Context, userID string, limit int) ([]domain.TradeReceipt, error)
}
