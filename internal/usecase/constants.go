package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultPageSize is used when a history request leaves the size unset.
	DefaultPageSize = 20

	// DefaultMaxPageSize and DefaultMaxPeriodDays bound history requests.
	DefaultMaxPageSize   = 50
	DefaultMaxPeriodDays = 90

	// DefaultQuoteTimeout bounds a single quote source lookup.
	DefaultQuoteTimeout = 3 * time.Second

	// DefaultQuoteCacheTTL keeps a day's quote for the rest of the day.
	DefaultQuoteCacheTTL = 24 * time.Hour

	// DefaultHistoryCacheTTL and DefaultAggregateCacheTTL bound stale reads
	// when an invalidation is lost.
	DefaultHistoryCacheTTL   = 10 * time.Minute
	DefaultAggregateCacheTTL = time.Minute
)
