package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/metrics"
)

// HistoryUseCase serves paginated remittance history through the cache.
type HistoryUseCase struct {
	accountRepo    AccountRepository
	remittanceRepo RemittanceRepository
	cache          Cache
	settings       Settings
	logger         zerolog.Logger
	metrics        *metrics.Metrics
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(
	accountRepo AccountRepository,
	remittanceRepo RemittanceRepository,
	cache Cache,
	settings Settings,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *HistoryUseCase {
	return &HistoryUseCase{
		accountRepo:    accountRepo,
		remittanceRepo: remittanceRepo,
		cache:          cache,
		settings:       settings.withDefaults(),
		logger:         logger.With().Str("component", "history").Logger(),
		metrics:        metrics,
	}
}

// HistoryInput selects one page of an account's remittances.
// Start and End are calendar dates, both inclusive. Page is zero-based.
type HistoryInput struct {
	AccountID int64
	Start     time.Time
	End       time.Time
	Page      int
	Size      int
}

// History returns the remittances sent or received by the account in [Start, End].
func (uc *HistoryUseCase) History(ctx context.Context, input HistoryInput) (*domain.RemittancePage, error) {
	input, err := uc.normalize(input)
	if err != nil {
		return nil, err
	}

	key := HistoryCacheKey(input.AccountID, input.Start, input.End, input.Page, input.Size)

	var page domain.RemittancePage
	hit, err := getCachedJSON(ctx, uc.cache, key, &page)
	if err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("history cache read failed")
	}
	if hit {
		uc.count(true)
		return &page, nil
	}
	uc.count(false)

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	from := input.Start
	to := input.End.AddDate(0, 0, 1)

	items, total, err := uc.remittanceRepo.ListByAccount(ctx, input.AccountID, from, to, input.Size, input.Page*input.Size)
	if err != nil {
		return nil, domain.NewProcessingError("list remittances", err)
	}

	if items == nil {
		items = []*domain.Remittance{}
	}

	result := &domain.RemittancePage{
		Items: items,
		Page:  input.Page,
		Size:  input.Size,
		Total: total,
	}

	if err := setCachedJSON(ctx, uc.cache, key, result, uc.settings.HistoryCacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("history cache write failed")
	}

	return result, nil
}

// MaxHistoryOffset is the largest row offset a history page may start at.
const MaxHistoryOffset = math.MaxInt32

// normalize validates the request without clamping and pins the dates to the processing timezone.
func (uc *HistoryUseCase) normalize(input HistoryInput) (HistoryInput, error) {
	input.Start = dateIn(input.Start, uc.settings.Location)
	input.End = dateIn(input.End, uc.settings.Location)

	if input.Start.After(input.End) {
		return input, fmt.Errorf("%w: %s > %s", domain.ErrInvalidPeriod, domain.DayKey(input.Start), domain.DayKey(input.End))
	}

	if days := daysBetween(input.Start, input.End); days > uc.settings.MaxPeriodDays {
		return input, fmt.Errorf("%w: %d days, maximum is %d", domain.ErrPeriodTooLong, days, uc.settings.MaxPeriodDays)
	}

	if input.Page < 0 {
		return input, domain.ErrInvalidPage
	}

	switch {
	case input.Size < 0:
		return input, fmt.Errorf("%w: size must not be negative", domain.ErrInvalidPage)
	case input.Size == 0:
		input.Size = DefaultPageSize
	}

	if input.Size > uc.settings.MaxPageSize {
		return input, fmt.Errorf("%w: %d, maximum is %d", domain.ErrPageSizeTooLarge, input.Size, uc.settings.MaxPageSize)
	}

	if input.Page > MaxHistoryOffset/input.Size {
		return input, fmt.Errorf("%w: page %d is out of range", domain.ErrInvalidPage, input.Page)
	}

	return input, nil
}

func (uc *HistoryUseCase) count(hit bool) {
	if uc.metrics == nil {
		return
	}
	if hit {
		uc.metrics.CacheHits.WithLabelValues(metrics.CacheHistory).Inc()
		return
	}
	uc.metrics.CacheMisses.WithLabelValues(metrics.CacheHistory).Inc()
}

// dateIn returns midnight of t's calendar date in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from start to end.
func daysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}
