package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iho/goremit/internal/domain"
)

// Cache key layout. Every history key of an account shares HistoryCachePrefix.
const (
	quoteKeyPrefix     = "quote:"
	historyKeyPrefix   = "history:"
	aggregateKeyPrefix = "aggregate:"
	accountLockPrefix  = "remit:account:"
)

// QuoteCacheKey is quote:<CUR>:<yyyy-mm-dd>.
func QuoteCacheKey(currency string, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", quoteKeyPrefix, currency, domain.DayKey(day))
}

// HistoryCachePrefix is the prefix of every cached history page of an account.
func HistoryCachePrefix(accountID int64) string {
	return fmt.Sprintf("%s%d:", historyKeyPrefix, accountID)
}

// HistoryCacheKey is history:<account>:<start>:<end>:<page>:<size>.
func HistoryCacheKey(accountID int64, start, end time.Time, page, size int) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", HistoryCachePrefix(accountID), domain.DayKey(start), domain.DayKey(end), page, size)
}

// AggregateCacheKey is aggregate:<account>:<yyyy-mm-dd>.
func AggregateCacheKey(accountID int64, day time.Time) string {
	return fmt.Sprintf("%s%d:%s", aggregateKeyPrefix, accountID, domain.DayKey(day))
}

// AccountLockKey names the guard of one account.
func AccountLockKey(accountID int64) string {
	return fmt.Sprintf("%s%d", accountLockPrefix, accountID)
}

// getCachedJSON decodes a cached value into dst. A miss returns (false, nil).
func getCachedJSON(ctx context.Context, cache Cache, key string, dst any) (bool, error) {
	raw, err := cache.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func setCachedJSON(ctx context.Context, cache Cache, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cache.Set(ctx, key, raw, ttl)
}
