package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// PgxPortfolioRepository implements the portfolio repository ports using
// pgxpool. A portfolio is one row in portfolios plus one row per currency
// in wallet_balances; the table carries a CHECK (balance >= 0) so the
// non-negative invariant holds even against a buggy writer.
type PgxPortfolioRepository struct {
	BaseRepository
}

// NewPgxPortfolioRepository creates a new PgxPortfolioRepository.
func NewPgxPortfolioRepository(pool *pgxpool.Pool) *PgxPortfolioRepository {
	return &PgxPortfolioRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// FindPortfolioByUserID retrieves a user's portfolio with all wallet balances.
func (r *PgxPortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID string) (*domain.Portfolio, error) {
	portfolio := domain.Portfolio{UserID: userID, Wallet: domain.Wallet{}}

	err := r.Pool.QueryRow(ctx, `
		SELECT base_currency, created_at, last_updated_at
		FROM portfolios WHERE user_id = $1`, userID,
	).Scan(&portfolio.BaseCurrency, &portfolio.CreatedAt, &portfolio.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: portfolio for user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find portfolio: %w", err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT currency_code, balance
		FROM wallet_balances WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet balances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		var balance decimal.Decimal
		if err := rows.Scan(&code, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan wallet balance: %w", err)
		}
		portfolio.Wallet[code] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wallet balances: %w", err)
	}

	return &portfolio, nil
}

// SavePortfolio persists the portfolio row and every wallet balance in one
// transaction.
func (r *PgxPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := upsertPortfolio(ctx, tx, portfolio); err != nil {
		return err
	}
	for code, balance := range portfolio.Wallet {
		if err := upsertBalance(ctx, tx, portfolio.UserID, code, balance); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// SaveTrade persists one trade atomically: the two affected balances, the
// portfolio timestamp, and the appended receipt all commit together or
// not at all.
func (r *PgxPortfolioRepository) SaveTrade(ctx context.Context, portfolio domain.Portfolio, receipt domain.TradeReceipt) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := upsertPortfolio(ctx, tx, portfolio); err != nil {
		return err
	}
	for _, code := range []string{receipt.Currency, receipt.BaseCurrency} {
		if err := upsertBalance(ctx, tx, portfolio.UserID, code, portfolio.Wallet.Balance(code)); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO trade_receipts (
			receipt_id, user_id, currency_code, direction, amount,
			rate_used, base_currency, base_delta, executed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		receipt.ReceiptID, receipt.UserID, receipt.Currency, string(receipt.Direction),
		receipt.Amount, receipt.RateUsed, receipt.BaseCurrency, receipt.BaseDelta, receipt.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade receipt: %w", err)
	}

	return r.Commit(ctx, tx)
}

func upsertPortfolio(ctx context.Context, tx pgx.Tx, portfolio domain.Portfolio) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO portfolios (user_id, base_currency, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET last_updated_at = EXCLUDED.last_updated_at`,
		portfolio.UserID, portfolio.BaseCurrency, portfolio.CreatedAt, portfolio.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio: %w", err)
	}
	return nil
}

func upsertBalance(ctx context.Context, tx pgx.Tx, userID, code string, balance decimal.Decimal) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO wallet_balances (user_id, currency_code, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, currency_code) DO UPDATE SET balance = EXCLUDED.balance`,
		userID, code, balance,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert balance for %s: %w", code, err)
	}
	return nil
}
