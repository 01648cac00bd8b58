package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
)

// RateCacheService owns the current rate table and its bounded history.
// The table is published through an atomic pointer: readers always see
// either the fully-old or fully-new version, never a half-merged one.
type RateCacheService struct {
	base         string
	sources      []portssvc.RateSource
	rateRepo     portsrepo.RateRepositoryFacade
	logger       *slog.Logger
	historyLimit int

	current atomic.Pointer[domain.RateTable]

	historyMu sync.Mutex
	history   []*domain.RateTable

	// flight guarantees at most one refresh cycle in flight; concurrent
	// callers (scheduled tick or manual request) join the running cycle
	// and receive its table and error.
	flight singleflight.Group
}

// NewRateCacheService creates a RateCacheService seeded with a
// base-currency-only table. rateRepo may be nil when persistence of rate
// points is not wanted (tests).
func NewRateCacheService(base string, sources []portssvc.RateSource, rateRepo portsrepo.RateRepositoryFacade, historyLimit int, logger *slog.Logger) *RateCacheService {
	s := &RateCacheService{
		base:         base,
		sources:      sources,
		rateRepo:     rateRepo,
		logger:       logger,
		historyLimit: historyLimit,
	}
	seed := domain.NewBaseRateTable(base, time.Now().UTC())
	s.current.Store(seed)
	s.pushHistory(seed)
	return s
}

// WarmFromStore overlays the most recent persisted rate entry per currency
// onto the seed table, so a restart does not begin from an empty cache.
// A load failure is logged and ignored; the cache stays usable.
func (s *RateCacheService) WarmFromStore(ctx context.Context) {
	if s.rateRepo == nil {
		return
	}
	entries, err := s.rateRepo.LoadLatestRates(ctx)
	if err != nil {
		s.logger.Warn("Failed to warm rate cache from store", slog.String("error", err.Error()))
		return
	}
	if len(entries) == 0 {
		return
	}
	next := s.Current().Merge(entries)
	s.current.Store(next)
	s.pushHistory(next)
	s.logger.Info("Rate cache warmed from store", slog.Int("entries", len(entries)), slog.Time("as_of", next.AsOf))
}

// Current returns the latest published table. Never nil, never blocking.
func (s *RateCacheService) Current() *domain.RateTable {
	return s.current.Load()
}

// IsStale reports whether the current table is older than maxAge.
func (s *RateCacheService) IsStale(maxAge time.Duration) bool {
	return time.Since(s.Current().AsOf) > maxAge
}

// Refresh runs one fetch-and-merge cycle, or joins the cycle already in
// flight. On total source failure the previous table is retained and
// apperrors.ErrAllSourcesFailed is returned.
func (s *RateCacheService) Refresh(ctx context.Context) (*domain.RateTable, error) {
	v, err, shared := s.flight.Do("refresh", func() (interface{}, error) {
		return s.doRefresh(ctx)
	})
	if shared {
		s.logger.Debug("Refresh request joined in-flight cycle")
	}
	if err != nil {
		return nil, err
	}
	return v.(*domain.RateTable), nil
}

func (s *RateCacheService) doRefresh(ctx context.Context) (*domain.RateTable, error) {
	prev := s.Current()

	var fetched []domain.RateEntry
	succeeded := 0
	for _, src := range s.sources {
		subset := domain.CurrenciesOfKind(src.Kind())
		entries, err := src.Fetch(ctx, subset)
		if err != nil {
			// A single source failure is isolated: log and keep going with
			// whatever the other sources return.
			s.logger.Warn("Rate source failed",
				slog.String("source", src.Name()),
				slog.String("error", err.Error()))
			continue
		}
		s.logger.Info("Rate source fetched",
			slog.String("source", src.Name()),
			slog.Int("entries", len(entries)))
		fetched = append(fetched, entries...)
		succeeded++
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("refresh of %d sources: %w", len(s.sources), apperrors.ErrAllSourcesFailed)
	}

	next := prev.Merge(fetched)
	s.current.Store(next)
	s.pushHistory(next)

	if s.rateRepo != nil {
		if err := s.rateRepo.SaveRateEntries(ctx, fetched); err != nil {
			// The in-memory table is already published; persistence failure
			// is reported, not rolled back.
			s.logger.Error("Failed to persist rate entries", slog.String("error", err.Error()))
		}
	}

	return next, nil
}

// Convert computes amount * rate(from) / rate(to) against the current table.
func (s *RateCacheService) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	return s.ConvertIn(s.Current(), amount, from, to)
}

// ConvertIn converts against an explicit snapshot. Trade execution pins
// one table for its whole computation through this method.
func (s *RateCacheService) ConvertIn(table *domain.RateTable, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromEntry, ok := table.Rate(from)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", apperrors.ErrUnknownCurrency, from)
	}
	toEntry, ok := table.Rate(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", apperrors.ErrUnknownCurrency, to)
	}
	return amount.Mul(fromEntry.PriceInBase).Div(toEntry.PriceInBase), nil
}

// History returns the retained table versions, newest first.
func (s *RateCacheService) History() []*domain.RateTable {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	out := make([]*domain.RateTable, len(s.history))
	for i, t := range s.history {
		out[len(s.history)-1-i] = t
	}
	return out
}

// Summary describes the current table for display.
func (s *RateCacheService) Summary() dto.RatesSummary {
	table := s.Current()
	counts := make(map[string]int)
	for _, e := range table.Entries {
		counts[string(e.Source)]++
	}
	return dto.RatesSummary{
		Base:          table.Base,
		AsOf:          table.AsOf,
		EntryCount:    len(table.Entries),
		CountBySource: counts,
	}
}

// ListRateHistory returns persisted rate points for one currency, newest first.
func (s *RateCacheService) ListRateHistory(ctx context.Context, currencyCode string, limit int) ([]domain.RateEntry, error) {
	if _, ok := domain.LookupCurrency(currencyCode); !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, currencyCode)
	}
	if s.rateRepo == nil {
		return []domain.RateEntry{}, nil
	}
	entries, err := s.rateRepo.ListRateHistory(ctx, currencyCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate history: %w", err)
	}
	return entries, nil
}

func (s *RateCacheService) pushHistory(table *domain.RateTable) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	s.history = append(s.history, table)
	if len(s.history) > s.historyLimit {
		s.history = s.history[len(s.history)-s.historyLimit:]
	}
}
