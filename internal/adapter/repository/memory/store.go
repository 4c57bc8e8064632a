// Package memory is an in-process implementation of the storage, cache and guard
// ports. Transactions hold real row locks and apply their writes at commit.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("transaction already committed or rolled back")

type aggregateKey struct {
	accountID int64
	day       string
}

type quoteKey struct {
	currency string
	day      string
}

// Store holds all rows. Use Begin to obtain a transaction.
type Store struct {
	mu          sync.RWMutex
	accounts    map[int64]*domain.Account
	wallets     map[int64]*domain.Wallet
	aggregates  map[aggregateKey]*domain.DailyAggregate
	remittances []*domain.Remittance
	outbox      []*domain.OutboxEvent
	quotes      map[quoteKey]decimal.Decimal
	nextID      int64
	locks       *keyedMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:   make(map[int64]*domain.Account),
		wallets:    make(map[int64]*domain.Wallet),
		aggregates: make(map[aggregateKey]*domain.DailyAggregate),
		quotes:     make(map[quoteKey]decimal.Decimal),
		locks:      newKeyedMutex(),
	}
}

// Begin starts a new transaction.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: s, held: make(map[string]bool)}, nil
}

// Tx buffers writes until Commit and holds row locks until it ends.
type Tx struct {
	store   *Store
	mu      sync.Mutex
	held    map[string]bool
	order   []string
	pending []func(*Store)
	done    bool
}

// Commit applies the buffered writes atomically and releases the row locks.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		t.finish()
		return err
	}

	t.store.mu.Lock()
	for _, apply := range t.pending {
		apply(t.store)
	}
	t.store.mu.Unlock()

	t.finish()
	return nil
}

// Rollback discards the buffered writes. Calling it after Commit is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *Tx) finish() {
	for i := len(t.order) - 1; i >= 0; i-- {
		t.store.locks.unlock(t.order[i])
	}
	t.order = nil
	t.held = nil
	t.pending = nil
	t.done = true
}

// lock takes the row lock for key unless the transaction already holds it.
func (t *Tx) lock(ctx context.Context, key string) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return ErrTxDone
	}
	if t.held[key] {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if err := t.store.locks.lock(ctx, key); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		t.store.locks.unlock(key)
		return ErrTxDone
	}
	t.held[key] = true
	t.order = append(t.order, key)
	return nil
}

func (t *Tx) enqueue(apply func(*Store)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}
	t.pending = append(t.pending, apply)
	return nil
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: unsupported transaction type %T", tx)
	}
	return t, nil
}

func walletLockKey(accountID int64) string {
	return fmt.Sprintf("wallet:%d", accountID)
}

func aggregateLockKey(key aggregateKey) string {
	return fmt.Sprintf("aggregate:%d:%s", key.accountID, key.day)
}

func dayKey(t time.Time) string {
	return domain.DayKey(t)
}
