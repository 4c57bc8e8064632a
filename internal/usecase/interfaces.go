package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// Create inserts the account and assigns its ID.
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	GetByID(ctx context.Context, accountID int64) (*domain.Wallet, error)
	// GetForUpdate loads the wallet and holds its row lock until tx ends.
	GetForUpdate(ctx context.Context, tx Transaction, accountID int64) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
}

// DailyAggregateRepository defines data access for per-day sent totals.
type DailyAggregateRepository interface {
	// GetForUpdate loads the (account, day) row, creating a zero row if missing,
	// and holds its lock until tx ends.
	GetForUpdate(ctx context.Context, tx Transaction, accountID int64, day time.Time) (*domain.DailyAggregate, error)
	// Get returns the aggregate, or a zero aggregate when none exists.
	Get(ctx context.Context, accountID int64, day time.Time) (*domain.DailyAggregate, error)
	Save(ctx context.Context, tx Transaction, aggregate *domain.DailyAggregate) error
}

// RemittanceRepository defines data access for the remittance ledger.
type RemittanceRepository interface {
	Create(ctx context.Context, tx Transaction, remittance *domain.Remittance) error
	GetByID(ctx context.Context, id string) (*domain.Remittance, error)
	// ListByAccount returns entries where the account is sender or recipient with
	// from <= created_at < to, newest first, plus the total match count.
	ListByAccount(ctx context.Context, accountID int64, from, to time.Time, limit, offset int) ([]*domain.Remittance, int64, error)
	// SumSent returns the sum of amounts sent by the account with from <= created_at < to.
	SumSent(ctx context.Context, accountID int64, from, to time.Time) (decimal.Decimal, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// QuoteSource returns the exchange rate of a currency for a business day.
type QuoteSource interface {
	Fetch(ctx context.Context, currency string, day time.Time) (decimal.Decimal, error)
}

// QuoteRepository stores published rates and serves them as a QuoteSource.
type QuoteRepository interface {
	QuoteSource
	Save(ctx context.Context, quote *domain.Quote) error
}

// Locker serializes work on a set of keys.
type Locker interface {
	// Lock acquires every key in the given order, waiting a bounded time.
	// It returns domain.ErrOperationInProgress when the wait runs out.
	Lock(ctx context.Context, keys ...string) (LockHandle, error)
}

// LockHandle releases the keys acquired by Locker.Lock.
type LockHandle interface {
	Unlock(ctx context.Context) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	// Flush drops every entry.
	Flush(ctx context.Context) error
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// IdempotencyPending is the stored value of a key whose first request is still running.
const IdempotencyPending = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// A nil response claims the key with IdempotencyPending.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
