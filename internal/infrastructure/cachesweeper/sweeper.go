// Package cachesweeper periodically drops every cache entry so stale quotes,
// history pages and aggregates cannot outlive one sweep interval.
package cachesweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goremit/internal/infrastructure/metrics"
	"github.com/iho/goremit/internal/usecase"
)

// Sweeper flushes a cache on a fixed interval.
type Sweeper struct {
	cache    usecase.Cache
	interval time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// New creates a Sweeper. A non-positive interval defaults to one hour.
func New(cache usecase.Cache, interval time.Duration, logger zerolog.Logger, m *metrics.Metrics) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		cache:    cache,
		interval: interval,
		logger:   logger.With().Str("component", "cache_sweeper").Logger(),
		metrics:  m,
	}
}

// Start runs until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("cache sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep flushes the cache once. Failures are logged and retried next tick.
func (s *Sweeper) Sweep(ctx context.Context) {
	if err := s.cache.Flush(ctx); err != nil {
		s.logger.Error().Err(err).Msg("cache sweep failed")
		if s.metrics != nil {
			s.metrics.CacheErrors.WithLabelValues("flush").Inc()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.CacheInvalidations.WithLabelValues(metrics.CacheAll).Inc()
	}
	s.logger.Debug().Msg("cache swept")
}
