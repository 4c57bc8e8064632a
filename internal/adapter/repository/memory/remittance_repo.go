package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// RemittanceRepository implements usecase.RemittanceRepository.
type RemittanceRepository struct {
	store *Store
}

// NewRemittanceRepository creates a new RemittanceRepository.
func NewRemittanceRepository(store *Store) *RemittanceRepository {
	return &RemittanceRepository{store: store}
}

// Create appends the remittance at commit.
func (r *RemittanceRepository) Create(ctx context.Context, tx usecase.Transaction, remittance *domain.Remittance) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	row := *remittance
	return t.enqueue(func(s *Store) {
		s.remittances = append(s.remittances, &row)
	})
}

// GetByID retrieves a remittance by ID.
func (r *RemittanceRepository) GetByID(ctx context.Context, id string) (*domain.Remittance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rem := range r.store.remittances {
		if rem.ID == id {
			out := *rem
			return &out, nil
		}
	}
	return nil, domain.ErrRemittanceNotFound
}

// ListByAccount returns one page of matches, newest first, and the match count.
func (r *RemittanceRepository) ListByAccount(ctx context.Context, accountID int64, from, to time.Time, limit, offset int) ([]*domain.Remittance, int64, error) {
	r.store.mu.RLock()
	var matches []*domain.Remittance
	for _, rem := range r.store.remittances {
		if rem.Involves(accountID) && inRange(rem.CreatedAt, from, to) {
			out := *rem
			matches = append(matches, &out)
		}
	}
	r.store.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID > matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := int64(len(matches))
	if offset < 0 || limit < 0 {
		return nil, 0, fmt.Errorf("invalid page window: limit %d, offset %d", limit, offset)
	}
	if offset >= len(matches) {
		return []*domain.Remittance{}, total, nil
	}

	end := offset + limit
	if end > len(matches) || end < offset {
		end = len(matches)
	}
	return matches[offset:end], total, nil
}

// SumSent adds the amounts the account sent in [from, to).
func (r *RemittanceRepository) SumSent(ctx context.Context, accountID int64, from, to time.Time) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, rem := range r.store.remittances {
		if rem.SenderID == accountID && inRange(rem.CreatedAt, from, to) {
			sum = sum.Add(rem.Amount)
		}
	}
	return sum, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
