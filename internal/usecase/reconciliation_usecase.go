package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
)

// ReconciliationUseCase checks daily aggregates against the ledger.
type ReconciliationUseCase struct {
	accountRepo    AccountRepository
	aggregateRepo  DailyAggregateRepository
	remittanceRepo RemittanceRepository
	settings       Settings
	logger         zerolog.Logger
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	aggregateRepo DailyAggregateRepository,
	remittanceRepo RemittanceRepository,
	settings Settings,
	logger zerolog.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo:    accountRepo,
		aggregateRepo:  aggregateRepo,
		remittanceRepo: remittanceRepo,
		settings:       settings.withDefaults(),
		logger:         logger.With().Str("component", "reconciliation").Logger(),
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID      int64
	Day            time.Time
	AggregateTotal decimal.Decimal
	LedgerTotal    decimal.Decimal
	Difference     decimal.Decimal
	IsReconciled   bool
	CheckedAt      time.Time
}

// ReconcileDailyAggregate compares the stored daily aggregate of an account with
// the sum of amounts it sent that day according to the ledger. A zero day means today.
func (uc *ReconciliationUseCase) ReconcileDailyAggregate(ctx context.Context, accountID int64, day time.Time) (*ReconciliationResult, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	if day.IsZero() {
		day = uc.settings.now()
	}

	from := dateIn(day, uc.settings.Location)
	to := from.AddDate(0, 0, 1)

	aggregate, err := uc.aggregateRepo.Get(ctx, accountID, from)
	if err != nil {
		return nil, domain.NewProcessingError("load aggregate", err)
	}

	sent, err := uc.remittanceRepo.SumSent(ctx, accountID, from, to)
	if err != nil {
		return nil, domain.NewProcessingError("sum remittances", err)
	}

	diff := aggregate.Total.Sub(sent)
	result := &ReconciliationResult{
		AccountID:      accountID,
		Day:            from,
		AggregateTotal: aggregate.Total,
		LedgerTotal:    sent,
		Difference:     diff,
		IsReconciled:   diff.IsZero(),
		CheckedAt:      uc.settings.now(),
	}

	if !result.IsReconciled {
		uc.logger.Warn().
			Int64("account_id", accountID).
			Str("day", domain.DayKey(from)).
			Str("aggregate_total", aggregate.Total.StringFixed(2)).
			Str("ledger_total", sent.StringFixed(2)).
			Msg("daily aggregate does not match ledger")
	}

	return result, nil
}
