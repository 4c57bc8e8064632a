package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/metrics"
)

// QuoteUseCase serves per-day exchange rates through the cache.
type QuoteUseCase struct {
	source   QuoteSource
	repo     QuoteRepository
	cache    Cache
	settings Settings
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	group    singleflight.Group
}

// NewQuoteUseCase creates a new QuoteUseCase. repo may be nil when quotes are read-only.
func NewQuoteUseCase(
	source QuoteSource,
	repo QuoteRepository,
	cache Cache,
	settings Settings,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *QuoteUseCase {
	return &QuoteUseCase{
		source:   source,
		repo:     repo,
		cache:    cache,
		settings: settings.withDefaults(),
		logger:   logger.With().Str("component", "quotes").Logger(),
		metrics:  metrics,
	}
}

// GetQuote returns today's rate for currency.
func (uc *QuoteUseCase) GetQuote(ctx context.Context, currency string) (decimal.Decimal, error) {
	currency = domain.NormalizeCurrency(currency)
	if err := uc.settings.Currencies.Validate(currency); err != nil {
		return decimal.Zero, err
	}

	return uc.quoteAt(ctx, currency, uc.settings.now())
}

// quoteAt returns the rate applying on the calendar day of now.
// Concurrent misses for one key share a single source lookup.
func (uc *QuoteUseCase) quoteAt(ctx context.Context, currency string, now time.Time) (decimal.Decimal, error) {
	key := QuoteCacheKey(currency, now)

	if rate, ok := uc.cached(ctx, key); ok {
		uc.countCache(true)
		return rate, nil
	}
	uc.countCache(false)

	v, err, _ := uc.group.Do(key, func() (any, error) {
		if rate, ok := uc.cached(ctx, key); ok {
			return rate, nil
		}
		return uc.fetch(ctx, key, currency, domain.QuoteDay(now))
	})
	if err != nil {
		return decimal.Zero, err
	}

	return v.(decimal.Decimal), nil
}

func (uc *QuoteUseCase) cached(ctx context.Context, key string) (decimal.Decimal, bool) {
	raw, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("quote cache read failed")
			uc.countCacheError("get")
		}
		return decimal.Zero, false
	}

	rate, err := decimal.NewFromString(string(raw))
	if err != nil || !rate.IsPositive() {
		uc.logger.Warn().Str("key", key).Str("value", string(raw)).Msg("discarding malformed cached quote")
		return decimal.Zero, false
	}

	return rate, true
}

func (uc *QuoteUseCase) fetch(ctx context.Context, key, currency string, day time.Time) (decimal.Decimal, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, uc.settings.QuoteTimeout)
	defer cancel()

	if uc.metrics != nil {
		uc.metrics.QuoteFetches.WithLabelValues(currency).Inc()
	}

	rate, err := uc.source.Fetch(fetchCtx, currency, day)
	if err == nil && !rate.IsPositive() {
		err = fmt.Errorf("%w: source returned %s", domain.ErrInvalidQuote, rate)
	}
	if err != nil {
		return uc.fallback(currency, day, err)
	}

	if err := uc.cache.Set(ctx, key, []byte(rate.String()), uc.settings.QuoteCacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("quote cache write failed")
		uc.countCacheError("set")
	}

	return rate, nil
}

// fallback answers with the configured default rate. Fallback values are never cached
// so the next request retries the source.
func (uc *QuoteUseCase) fallback(currency string, day time.Time, cause error) (decimal.Decimal, error) {
	if uc.metrics != nil {
		uc.metrics.QuoteFallbacks.WithLabelValues(currency).Inc()
	}

	if !uc.settings.DefaultQuote.IsPositive() {
		uc.logger.Error().Err(cause).Str("currency", currency).Msg("quote unavailable and no usable default rate")
		return decimal.Zero, fmt.Errorf("%w: %s unavailable: %v", domain.ErrInvalidQuote, currency, cause)
	}

	uc.logger.Warn().
		Err(cause).
		Str("currency", currency).
		Str("day", domain.DayKey(day)).
		Str("default_rate", uc.settings.DefaultQuote.String()).
		Msg("quote source failed, using default rate")

	return uc.settings.DefaultQuote, nil
}

// PublishQuote stores the rate of currency for day and evicts the cached value.
// A zero day means today.
func (uc *QuoteUseCase) PublishQuote(ctx context.Context, currency string, day time.Time, rate decimal.Decimal) (*domain.Quote, error) {
	if uc.repo == nil {
		return nil, errors.New("quote publishing is not configured")
	}

	currency = domain.NormalizeCurrency(currency)
	if err := uc.settings.Currencies.Validate(currency); err != nil {
		return nil, err
	}
	rate = domain.RoundQuote(rate)
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive at %d decimal places", domain.ErrInvalidQuote, domain.QuoteScale)
	}

	if day.IsZero() {
		day = uc.settings.now()
	}

	quote := &domain.Quote{
		Currency: currency,
		Day:      dateIn(day, uc.settings.Location),
		Rate:     rate,
	}

	if err := uc.repo.Save(ctx, quote); err != nil {
		return nil, domain.NewProcessingError("save quote", err)
	}

	uc.evict(ctx, quote.Day, currency)
	if quote.Day.Weekday() == time.Friday {
		uc.evict(ctx, quote.Day.AddDate(0, 0, 1), currency)
		uc.evict(ctx, quote.Day.AddDate(0, 0, 2), currency)
	}

	return quote, nil
}

// Invalidate evicts today's cached rate for currency.
func (uc *QuoteUseCase) Invalidate(ctx context.Context, currency string) error {
	key := QuoteCacheKey(domain.NormalizeCurrency(currency), uc.settings.now())
	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.countCacheError("delete")
		return err
	}
	if uc.metrics != nil {
		uc.metrics.CacheInvalidations.WithLabelValues(metrics.CacheQuote).Inc()
	}
	return nil
}

func (uc *QuoteUseCase) evict(ctx context.Context, day time.Time, currency string) {
	key := QuoteCacheKey(currency, day)
	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("quote cache eviction failed")
		uc.countCacheError("delete")
	}
}

func (uc *QuoteUseCase) countCache(hit bool) {
	if uc.metrics == nil {
		return
	}
	if hit {
		uc.metrics.CacheHits.WithLabelValues(metrics.CacheQuote).Inc()
		return
	}
	uc.metrics.CacheMisses.WithLabelValues(metrics.CacheQuote).Inc()
}

func (uc *QuoteUseCase) countCacheError(op string) {
	if uc.metrics != nil {
		uc.metrics.CacheErrors.WithLabelValues(op).Inc()
	}
}
