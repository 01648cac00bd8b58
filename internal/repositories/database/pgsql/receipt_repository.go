package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// PgxReceiptRepository reads the append-only trade receipt history.
// Receipts are written by PgxPortfolioRepository.SaveTrade as part of the
// trade transaction; nothing ever updates or deletes them.
type PgxReceiptRepository struct {
	BaseRepository
}

// NewPgxReceiptRepository creates a new PgxReceiptRepository.
func NewPgxReceiptRepository(pool *pgxpool.Pool) *PgxReceiptRepository {
	return &PgxReceiptRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// ListReceiptsByUserID retrieves a user's trade receipts, newest first.
// Receipt IDs are ULIDs, so ordering by ID orders by execution time.
func (r *PgxReceiptRepository) ListReceiptsByUserID(ctx context.Context, userID string, limit int) ([]domain.TradeReceipt, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT receipt_id, user_id, currency_code, direction, amount,
		       rate_used, base_currency, base_delta, executed_at
		FROM trade_receipts
		WHERE user_id = $1
		ORDER BY receipt_id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade receipts: %w", err)
	}
	defer rows.Close()

	var receipts []domain.TradeReceipt
	for rows.Next() {
		var rec domain.TradeReceipt
		var direction string
		if err := rows.Scan(
			&rec.ReceiptID, &rec.UserID, &rec.Currency, &direction, &rec.Amount,
			&rec.RateUsed, &rec.BaseCurrency, &rec.BaseDelta, &rec.ExecutedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade receipt: %w", err)
		}
		rec.Direction = domain.TradeDirection(direction)
		receipts = append(receipts, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trade receipts: %w", err)
	}
	return receipts, nil
}
