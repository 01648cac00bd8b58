package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
)

// RefreshScheduler drives periodic refreshes of the rate cache. The
// cache's own in-flight guard means a tick that lands while a refresh is
// still running coalesces into it instead of starting a second cycle, so
// at most one fetch cycle runs at any time regardless of how ticks and
// manual refreshes interleave.
type RefreshScheduler struct {
	refresher portssvc.RateCacheRefreshSvc
	interval  time.Duration
	logger    *slog.Logger
}

// NewRefreshScheduler creates a scheduler that refreshes every interval.
func NewRefreshScheduler(refresher portssvc.RateCacheRefreshSvc, interval time.Duration, logger *slog.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the background loop and returns immediately. The loop
// runs an initial refresh, then one per interval, until ctx is cancelled.
func (s *RefreshScheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *RefreshScheduler) run(ctx context.Context) {
	s.logger.Info("Rate refresh scheduler started", slog.Duration("interval", s.interval))
	s.refreshOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Rate refresh scheduler stopped")
			return
		case <-ticker.C:
			s.refreshOnce(ctx)
		}
	}
}

func (s *RefreshScheduler) refreshOnce(ctx context.Context) {
	table, err := s.refresher.Refresh(ctx)
	switch {
	case err == nil:
		s.logger.Info("Scheduled refresh completed",
			slog.Int("entries", len(table.Entries)),
			slog.Time("as_of", table.AsOf))
	case errors.Is(err, context.Canceled):
		// Shutdown in progress, nothing to report.
	case errors.Is(err, apperrors.ErrAllSourcesFailed):
		s.logger.Warn("Scheduled refresh failed, keeping previous table", slog.String("error", err.Error()))
	default:
		s.logger.Error("Scheduled refresh failed", slog.String("error", err.Error()))
	}
}
