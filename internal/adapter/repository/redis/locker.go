package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// LockOptions tunes the lease locker.
type LockOptions struct {
	// TTL is the lease length. A crashed holder loses its keys after TTL.
	TTL time.Duration
	// Wait bounds how long Lock waits for all keys.
	Wait time.Duration
	// RetryDelay is the pause between attempts on a taken key.
	RetryDelay time.Duration
}

// DefaultLockOptions returns the stock lease settings.
func DefaultLockOptions() LockOptions {
	return LockOptions{
		TTL:        15 * time.Second,
		Wait:       5 * time.Second,
		RetryDelay: 50 * time.Millisecond,
	}
}

// LeaseLocker implements usecase.Locker with redsync leases, so the guard
// holds across every server instance sharing the Redis.
type LeaseLocker struct {
	rs   *redsync.Redsync
	opts LockOptions
}

// NewLeaseLocker creates a LeaseLocker on client.
func NewLeaseLocker(client *redis.Client, opts LockOptions) *LeaseLocker {
	def := DefaultLockOptions()
	if opts.TTL <= 0 {
		opts.TTL = def.TTL
	}
	if opts.Wait <= 0 {
		opts.Wait = def.Wait
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}

	return &LeaseLocker{
		rs:   redsync.New(goredis.NewPool(client)),
		opts: opts,
	}
}

// Lock acquires keys in the given order. When the wait runs out it releases
// what it holds and returns domain.ErrOperationInProgress.
func (l *LeaseLocker) Lock(ctx context.Context, keys ...string) (usecase.LockHandle, error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.opts.Wait)
	defer cancel()

	// Enough attempts that the wait deadline, not the try count, ends the loop.
	tries := 2*int(l.opts.Wait/l.opts.RetryDelay) + 2
	held := make([]*redsync.Mutex, 0, len(keys))

	for _, key := range keys {
		mutex := l.rs.NewMutex(key,
			redsync.WithExpiry(l.opts.TTL),
			redsync.WithTries(tries),
			redsync.WithRetryDelay(l.opts.RetryDelay),
		)

		if err := mutex.LockContext(waitCtx); err != nil {
			releaseAll(context.WithoutCancel(ctx), held)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if isContention(err) || waitCtx.Err() != nil {
				return nil, fmt.Errorf("%w: %s", domain.ErrOperationInProgress, key)
			}
			return nil, fmt.Errorf("acquire lease %s: %w", key, err)
		}

		held = append(held, mutex)
	}

	return newLeaseHandle(held, l.opts.TTL/3), nil
}

func isContention(err error) bool {
	var taken *redsync.ErrTaken
	return errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken)
}

func releaseAll(ctx context.Context, mutexes []*redsync.Mutex) error {
	var errs []error
	for i := len(mutexes) - 1; i >= 0; i-- {
		if ok, err := mutexes[i].UnlockContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("release lease %s: %w", mutexes[i].Name(), err))
		} else if !ok {
			errs = append(errs, fmt.Errorf("release lease %s: not held", mutexes[i].Name()))
		}
	}
	return errors.Join(errs...)
}

// leaseHandle renews its leases every interval until Unlock, so a transfer
// that outlives TTL keeps the guard.
type leaseHandle struct {
	mutexes []*redsync.Mutex
	stop    chan struct{}
	done    chan struct{}
}

func newLeaseHandle(mutexes []*redsync.Mutex, interval time.Duration) *leaseHandle {
	h := &leaseHandle{
		mutexes: mutexes,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go h.renew(interval)
	return h
}

func (h *leaseHandle) renew(interval time.Duration) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			for _, m := range h.mutexes {
				// A lost lease cannot be won back here; the row locks still hold.
				if ok, err := m.Extend(); err != nil || !ok {
					return
				}
			}
		}
	}
}

// Unlock stops renewal and releases every lease. An expired lease is reported
// but does not stop the others from being released.
func (h *leaseHandle) Unlock(ctx context.Context) error {
	if h.stop == nil {
		return nil
	}
	close(h.stop)
	<-h.done

	mutexes := h.mutexes
	h.mutexes = nil
	h.stop = nil
	return releaseAll(ctx, mutexes)
}
