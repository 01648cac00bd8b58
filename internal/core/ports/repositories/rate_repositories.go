package repositories

import (
	"context"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// RateReader defines read operations for persisted rate data
type RateReader interface {
	// LoadLatestRates retrieves the most recent persisted rate entry per
	// currency, used to warm the in-memory cache at startup.
	LoadLatestRates(ctx context.Context) ([]domain.RateEntry, error)

	// ListRateHistory retrieves the most recent persisted rate points for
	// one currency, newest first.
	ListRateHistory(ctx context.Context, currencyCode string, limit int) ([]domain.RateEntry, error)
}

// RateWriter defines write operations for persisted rate data
type RateWriter interface {
	// SaveRateEntries appends the entries produced by one refresh cycle.
	SaveRateEntries(ctx context.Context, entries []domain.RateEntry) error
}

// RateRepositoryFacade combines all rate-related repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
