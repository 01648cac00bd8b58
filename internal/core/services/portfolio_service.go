package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
)

// PortfolioService provides portfolio reads, valuation and deposits.
// Deposits go through the same per-user lock registry as trades, so the
// two kinds of wallet mutation never race each other.
type PortfolioService struct {
	portfolioRepo portsrepo.PortfolioRepositoryFacade
	rateCache     portssvc.RateCacheReaderSvc
	userLocks     *UserLockRegistry
	seedBalance   decimal.Decimal
	base          string
	logger        *slog.Logger
}

// NewPortfolioService creates a new PortfolioService. userLocks must be
// the same registry handed to every other service that writes wallet
// balances.
func NewPortfolioService(portfolioRepo portsrepo.PortfolioRepositoryFacade, rateCache portssvc.RateCacheReaderSvc, userLocks *UserLockRegistry, seedBalance decimal.Decimal, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		rateCache:     rateCache,
		userLocks:     userLocks,
		seedBalance:   seedBalance,
		base:          domain.BaseCurrencyCode,
		logger:        logger,
	}
}

// CreatePortfolio creates a portfolio seeded with the configured base
// currency balance. Called once per user, at registration.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, userID string) (*domain.Portfolio, error) {
	now := time.Now().UTC()
	portfolio := domain.Portfolio{
		UserID:       userID,
		BaseCurrency: s.base,
		Wallet:       domain.Wallet{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if s.seedBalance.IsPositive() {
		portfolio.Wallet.Credit(s.base, s.seedBalance)
	}

	if err := s.portfolioRepo.SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}
	s.logger.Info("Portfolio created",
		slog.String("user_id", userID),
		slog.String("seed_balance", s.seedBalance.String()))
	return &portfolio, nil
}

// GetPortfolio retrieves a user's raw wallet balances.
func (s *PortfolioService) GetPortfolio(ctx context.Context, userID string) (*domain.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindPortfolioByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return portfolio, nil
}

// Valuate prices every non-zero balance in the base currency using a
// single rate table snapshot. The point of valuation is correctness, not
// best effort: a conversion failure for any currency fails the whole
// valuation, naming the currency.
func (s *PortfolioService) Valuate(ctx context.Context, userID string) (*domain.PortfolioValuation, error) {
	portfolio, err := s.portfolioRepo.FindPortfolioByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	table := s.rateCache.Current()

	codes := make([]string, 0, len(portfolio.Wallet))
	for code := range portfolio.Wallet {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	valuation := &domain.PortfolioValuation{
		UserID:       userID,
		BaseCurrency: portfolio.BaseCurrency,
		Positions:    []domain.Position{},
		TotalValue:   decimal.Zero,
		AsOf:         table.AsOf,
	}

	for _, code := range codes {
		balance := portfolio.Wallet.Balance(code)
		if balance.IsZero() {
			continue
		}
		value, err := s.rateCache.ConvertIn(table, balance, code, portfolio.BaseCurrency)
		if err != nil {
			return nil, fmt.Errorf("valuation failed for %s: %w", code, err)
		}
		currency, _ := domain.LookupCurrency(code)
		entry, _ := table.Rate(code)
		valuation.Positions = append(valuation.Positions, domain.Position{
			Currency:    code,
			Kind:        currency.Kind,
			Balance:     balance,
			RateToBase:  entry.PriceInBase,
			ValueInBase: value,
		})
		valuation.TotalValue = valuation.TotalValue.Add(value)
	}

	return valuation, nil
}

// Deposit credits amount of the given currency to the user's wallet.
func (s *PortfolioService) Deposit(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.Portfolio, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if _, ok := domain.LookupCurrency(currencyCode); !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, currencyCode)
	}

	// Hold the user's lock across the read-modify-write: a trade committing
	// between our read and save would otherwise be silently undone.
	lock := s.userLocks.ForUser(userID)
	lock.Lock()
	defer lock.Unlock()

	portfolio, err := s.portfolioRepo.FindPortfolioByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	portfolio.Wallet.Credit(currencyCode, amount)
	portfolio.LastUpdatedAt = time.Now().UTC()

	if err := s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info("Deposit completed",
		slog.String("user_id", userID),
		slog.String("currency", currencyCode),
		slog.String("amount", amount.String()))
	return portfolio, nil
}
