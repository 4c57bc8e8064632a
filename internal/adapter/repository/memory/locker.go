package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// Locker implements usecase.Locker with in-process keyed mutexes.
// It serializes callers of one process only.
type Locker struct {
	locks *keyedMutex
	wait  time.Duration
}

// NewLocker creates a Locker that waits at most wait for all keys.
func NewLocker(wait time.Duration) *Locker {
	return &Locker{locks: newKeyedMutex(), wait: wait}
}

// Lock acquires keys in the given order. On timeout it releases what it holds
// and returns domain.ErrOperationInProgress.
func (l *Locker) Lock(ctx context.Context, keys ...string) (usecase.LockHandle, error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	held := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.locks.lock(waitCtx, key); err != nil {
			l.release(held)
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", domain.ErrOperationInProgress, key)
			}
			return nil, err
		}
		held = append(held, key)
	}

	return &lockHandle{locker: l, keys: held}, nil
}

func (l *Locker) release(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.locks.unlock(keys[i])
	}
}

type lockHandle struct {
	locker *Locker
	keys   []string
}

// Unlock releases the keys. Calling it twice is a no-op.
func (h *lockHandle) Unlock(_ context.Context) error {
	keys := h.keys
	h.keys = nil
	h.locker.release(keys)
	return nil
}
