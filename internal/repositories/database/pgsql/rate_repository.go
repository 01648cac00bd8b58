package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// PgxRateRepository persists the rate points produced by refresh cycles.
// Each fetched entry becomes one append-only row, which doubles as the
// per-currency rate history.
type PgxRateRepository struct {
	BaseRepository
}

// NewPgxRateRepository creates a new PgxRateRepository.
func NewPgxRateRepository(pool *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// SaveRateEntries appends the entries produced by one refresh cycle in a
// single transaction.
func (r *PgxRateRepository) SaveRateEntries(ctx context.Context, entries []domain.RateEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO rate_points (currency_code, price_in_base, fetched_at, source)
			VALUES ($1, $2, $3, $4)`,
			e.Currency, e.PriceInBase, e.FetchedAt, string(e.Source),
		)
		if err != nil {
			return fmt.Errorf("failed to insert rate point for %s: %w", e.Currency, err)
		}
	}

	return r.Commit(ctx, tx)
}

// LoadLatestRates retrieves the most recent persisted rate entry per currency.
func (r *PgxRateRepository) LoadLatestRates(ctx context.Context) ([]domain.RateEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT DISTINCT ON (currency_code)
		       currency_code, price_in_base, fetched_at, source
		FROM rate_points
		ORDER BY currency_code, fetched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest rates: %w", err)
	}
	defer rows.Close()

	return scanRateEntries(rows)
}

// ListRateHistory retrieves the most recent rate points for one currency,
// newest first.
func (r *PgxRateRepository) ListRateHistory(ctx context.Context, currencyCode string, limit int) ([]domain.RateEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT currency_code, price_in_base, fetched_at, source
		FROM rate_points
		WHERE currency_code = $1
		ORDER BY fetched_at DESC
		LIMIT $2`, currencyCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history: %w", err)
	}
	defer rows.Close()

	return scanRateEntries(rows)
}

func scanRateEntries(rows pgx.Rows) ([]domain.RateEntry, error) {
	var entries []domain.RateEntry
	for rows.Next() {
		var e domain.RateEntry
		var source string
		if err := rows.Scan(&e.Currency, &e.PriceInBase, &e.FetchedAt, &source); err != nil {
			return nil, fmt.Errorf("failed to scan rate point: %w", err)
		}
		e.Source = domain.RateSourceName(source)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rate points: %w", err)
	}
	return entries, nil
}
