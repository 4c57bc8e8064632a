package memory

import (
	"context"
	"time"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// DailyAggregateRepository implements usecase.DailyAggregateRepository.
type DailyAggregateRepository struct {
	store *Store
}

// NewDailyAggregateRepository creates a new DailyAggregateRepository.
func NewDailyAggregateRepository(store *Store) *DailyAggregateRepository {
	return &DailyAggregateRepository{store: store}
}

// GetForUpdate locks the (account, day) row and returns it, zero when absent.
func (r *DailyAggregateRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID int64, day time.Time) (*domain.DailyAggregate, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	key := aggregateKey{accountID: accountID, day: dayKey(day)}
	if err := t.lock(ctx, aggregateLockKey(key)); err != nil {
		return nil, err
	}

	return r.Get(ctx, accountID, day)
}

// Get returns a snapshot of the aggregate, zero when absent.
func (r *DailyAggregateRepository) Get(ctx context.Context, accountID int64, day time.Time) (*domain.DailyAggregate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.aggregates[aggregateKey{accountID: accountID, day: dayKey(day)}]
	if !ok {
		return domain.NewDailyAggregate(accountID, day), nil
	}
	out := *a
	return &out, nil
}

// Save upserts the aggregate at commit.
func (r *DailyAggregateRepository) Save(ctx context.Context, tx usecase.Transaction, aggregate *domain.DailyAggregate) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	row := *aggregate
	key := aggregateKey{accountID: row.AccountID, day: dayKey(row.Day)}
	return t.enqueue(func(s *Store) {
		s.aggregates[key] = &row
	})
}
