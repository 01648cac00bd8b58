package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
)

// TradeService executes buy and sell orders. It holds no trade state of
// its own: it reads one rate table snapshot, mutates the portfolio through
// the repository's atomic SaveTrade, and appends a receipt.
//
// Trades for the same user are serialized through the shared per-user
// lock registry so the debit/credit pair of one trade can never
// interleave with another wallet mutation; trades for different users
// proceed concurrently.
type TradeService struct {
	portfolioRepo portsrepo.PortfolioRepositoryFacade
	receiptRepo   portsrepo.ReceiptReader
	rateCache     portssvc.RateCacheReaderSvc
	userLocks     *UserLockRegistry
	logger        *slog.Logger

	// Stale-rate rejection is an explicit, configurable policy.
	rejectStaleTrades bool
	ratesMaxAge       time.Duration
}

// NewTradeService creates a new TradeService. userLocks must be the same
// registry handed to every other service that writes wallet balances.
func NewTradeService(portfolioRepo portsrepo.PortfolioRepositoryFacade, receiptRepo portsrepo.ReceiptReader, rateCache portssvc.RateCacheReaderSvc, userLocks *UserLockRegistry, rejectStaleTrades bool, ratesMaxAge time.Duration, logger *slog.Logger) *TradeService {
	return &TradeService{
		portfolioRepo:     portfolioRepo,
		receiptRepo:       receiptRepo,
		rateCache:         rateCache,
		userLocks:         userLocks,
		logger:            logger,
		rejectStaleTrades: rejectStaleTrades,
		ratesMaxAge:       ratesMaxAge,
	}
}

// Buy debits the base currency by amount * rate and credits the traded currency.
func (s *TradeService) Buy(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeReceipt, error) {
	return s.execute(ctx, userID, currencyCode, amount, domain.Buy)
}

// Sell debits the traded currency and credits the base currency with the proceeds.
func (s *TradeService) Sell(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeReceipt, error) {
	return s.execute(ctx, userID, currencyCode, amount, domain.Sell)
}

func (s *TradeService) execute(ctx context.Context, userID, currencyCode string, amount decimal.Decimal, direction domain.TradeDirection) (*domain.TradeReceipt, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if _, ok := domain.LookupCurrency(currencyCode); !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, currencyCode)
	}
	if currencyCode == domain.BaseCurrencyCode {
		return nil, fmt.Errorf("%w: cannot trade the base currency against itself", apperrors.ErrValidation)
	}
	if s.rejectStaleTrades && s.rateCache.IsStale(s.ratesMaxAge) {
		return nil, fmt.Errorf("%w: older than %s", apperrors.ErrStaleRates, s.ratesMaxAge)
	}

	lock := s.userLocks.ForUser(userID)
	lock.Lock()
	defer lock.Unlock()

	// One snapshot for the whole trade: a refresh landing mid-trade must
	// not change the rate partway through the computation.
	table := s.rateCache.Current()
	baseValue, err := s.rateCache.ConvertIn(table, amount, currencyCode, domain.BaseCurrencyCode)
	if err != nil {
		return nil, err
	}
	rateEntry, _ := table.Rate(currencyCode)

	portfolio, err := s.portfolioRepo.FindPortfolioByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	var debitCode string
	var debitAmount, creditAmount, baseDelta decimal.Decimal
	var creditCode string
	switch direction {
	case domain.Buy:
		debitCode, debitAmount = portfolio.BaseCurrency, baseValue
		creditCode, creditAmount = currencyCode, amount
		baseDelta = baseValue.Neg()
	case domain.Sell:
		debitCode, debitAmount = currencyCode, amount
		creditCode, creditAmount = portfolio.BaseCurrency, baseValue
		baseDelta = baseValue
	default:
		return nil, fmt.Errorf("%w: unknown trade direction %q", apperrors.ErrValidation, direction)
	}

	if !portfolio.Wallet.Debit(debitCode, debitAmount) {
		return nil, fmt.Errorf("%w: %s available %s, required %s",
			apperrors.ErrInsufficientFunds, debitCode,
			portfolio.Wallet.Balance(debitCode).String(), debitAmount.String())
	}
	portfolio.Wallet.Credit(creditCode, creditAmount)
	portfolio.LastUpdatedAt = time.Now().UTC()

	receipt := domain.TradeReceipt{
		ReceiptID:    ulid.Make().String(),
		UserID:       userID,
		Currency:     currencyCode,
		Direction:    direction,
		Amount:       amount,
		RateUsed:     rateEntry.PriceInBase,
		BaseCurrency: portfolio.BaseCurrency,
		BaseDelta:    baseDelta,
		ExecutedAt:   time.Now().UTC(),
	}

	if err := s.portfolioRepo.SaveTrade(ctx, *portfolio, receipt); err != nil {
		return nil, fmt.Errorf("failed to save trade: %w", err)
	}

	s.logger.Info("Trade executed",
		slog.String("user_id", userID),
		slog.String("receipt_id", receipt.ReceiptID),
		slog.String("direction", string(direction)),
		slog.String("currency", currencyCode),
		slog.String("amount", amount.String()),
		slog.String("rate_used", receipt.RateUsed.String()))
	return &receipt, nil
}

// ListTrades retrieves the user's receipt history, newest first.
func (s *TradeService) ListTrades(ctx context.Context, userID string, limit int) ([]domain.TradeReceipt, error) {
	receipts, err := s.receiptRepo.ListReceiptsByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	if receipts == nil {
		receipts = []domain.TradeReceipt{}
	}
	return receipts, nil
}
