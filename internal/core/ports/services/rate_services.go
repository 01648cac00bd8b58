package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
)

// RateSource is the capability of one external rate provider: fetch quotes
// for a subset of the supported currencies and normalize them into rate
// entries priced in the base currency. Implementations classify their own
// failures as apperrors.FetchError; the rate cache isolates them per source.
type RateSource interface {
	// Name identifies the provider in logs and rate entries.
	Name() string

	// Kind is the currency partition this source quotes (fiat or crypto).
	Kind() domain.CurrencyKind

	// Fetch retrieves and normalizes quotes for the given currencies.
	Fetch(ctx context.Context, currencies []domain.Currency) ([]domain.RateEntry, error)
}

// RateCacheReaderSvc defines non-mutating operations on the rate cache
type RateCacheReaderSvc interface {
	// Current returns the latest successfully merged table. It never
	// blocks and never fails; before the first refresh it returns a
	// base-currency-only table.
	Current() *domain.RateTable

	// IsStale reports whether the current table's AsOf is older than maxAge.
	IsStale(maxAge time.Duration) bool

	// Convert computes amount * rate(from) / rate(to) against the current table.
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)

	// ConvertIn is Convert against an explicit table snapshot, so a caller
	// can pin one table version across a multi-step computation.
	ConvertIn(table *domain.RateTable, amount decimal.Decimal, from, to string) (decimal.Decimal, error)

	// History returns the retained table versions, newest first.
	History() []*domain.RateTable

	// Summary describes the current table for display.
	Summary() dto.RatesSummary

	// ListRateHistory returns persisted rate points for one currency, newest first.
	ListRateHistory(ctx context.Context, currencyCode string, limit int) ([]domain.RateEntry, error)
}

// RateCacheRefreshSvc defines the mutating refresh operation
type RateCacheRefreshSvc interface {
	// Refresh queries every source and publishes the merged table. At most
	// one refresh cycle runs at a time; concurrent callers join the
	// in-flight cycle and receive its result.
	Refresh(ctx context.Context) (*domain.RateTable, error)
}

// RateCacheSvcFacade combines all rate-cache service interfaces
type RateCacheSvcFacade interface {
	RateCacheReaderSvc
	RateCacheRefreshSvc
}
