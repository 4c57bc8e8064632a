package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/postgres/generated"
	"github.com/iho/goremit/internal/usecase"
)

// DailyAggregateRepository implements usecase.DailyAggregateRepository.
type DailyAggregateRepository struct {
	queries *generated.Queries
}

// NewDailyAggregateRepository creates a new DailyAggregateRepository.
func NewDailyAggregateRepository(db generated.DBTX) *DailyAggregateRepository {
	return &DailyAggregateRepository{queries: generated.New(db)}
}

// GetForUpdate makes sure the (account, day) row exists, then locks and returns it.
func (r *DailyAggregateRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID int64, day time.Time) (*domain.DailyAggregate, error) {
	queries := queriesFor(tx)
	pgDay := dayToPgDate(day)

	err := queries.EnsureDailyAggregate(ctx, generated.EnsureDailyAggregateParams{
		AccountID: accountID,
		Day:       pgDay,
		UpdatedAt: timeToPgTimestamptz(time.Now()),
	})
	if err != nil {
		return nil, err
	}

	row, err := queries.GetDailyAggregateForUpdate(ctx, generated.GetDailyAggregateForUpdateParams{
		AccountID: accountID,
		Day:       pgDay,
	})
	if err != nil {
		return nil, err
	}

	return rowToAggregate(row, day), nil
}

// Get returns the aggregate, or a zero one when the account sent nothing that day.
func (r *DailyAggregateRepository) Get(ctx context.Context, accountID int64, day time.Time) (*domain.DailyAggregate, error) {
	row, err := r.queries.GetDailyAggregate(ctx, generated.GetDailyAggregateParams{
		AccountID: accountID,
		Day:       dayToPgDate(day),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewDailyAggregate(accountID, day), nil
		}
		return nil, err
	}

	return rowToAggregate(row, day), nil
}

// Save writes the running total.
func (r *DailyAggregateRepository) Save(ctx context.Context, tx usecase.Transaction, aggregate *domain.DailyAggregate) error {
	return queriesFor(tx).UpdateDailyAggregate(ctx, generated.UpdateDailyAggregateParams{
		AccountID: aggregate.AccountID,
		Day:       dayToPgDate(aggregate.Day),
		Total:     decimalToNumeric(aggregate.Total),
		UpdatedAt: timeToPgTimestamptz(aggregate.UpdatedAt),
	})
}

// rowToAggregate keeps the caller's day so the value stays in the processing timezone.
func rowToAggregate(row generated.DailyAggregate, day time.Time) *domain.DailyAggregate {
	return &domain.DailyAggregate{
		AccountID: row.AccountID,
		Day:       domain.Day(day),
		Total:     numericToDecimal(row.Total),
		UpdatedAt: row.UpdatedAt.Time,
	}
}
