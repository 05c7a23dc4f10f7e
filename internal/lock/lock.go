// Package lock provides short-lived exclusive locks keyed by string.  The
// reservation flow takes one lock per seat cell for the duration of a
// write; the TTL frees a lock whose holder died without releasing it.
package lock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotAcquired is returned when the key stayed held by someone else
	// for every attempt.
	ErrNotAcquired = errors.New("lock: not acquired")
	// ErrNotHeld is returned by Release when the lock already expired or
	// now belongs to another holder.
	ErrNotHeld = errors.New("lock: not held")
)

// Lock is a held lock.  Token identifies the holder; only a Release with
// the same token frees the key.
type Lock struct {
	Key       string
	Token     string
	ExpiresAt time.Time
}

// Locker acquires and releases locks.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Lock, error)
	Release(ctx context.Context, l *Lock) error
}

// Options bounds how long Acquire keeps trying.  RetryCount is the number
// of extra attempts after the first one.
type Options struct {
	RetryCount int
	RetryDelay time.Duration
}

// retry calls try until it reports success, returns an error, or the
// attempts run out.  It waits RetryDelay between attempts and gives up
// early when ctx is done.
func retry(ctx context.Context, opts Options, try func() (bool, error)) error {
	for attempt := 0; ; attempt++ {
		ok, err := try()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if attempt >= opts.RetryCount {
			return ErrNotAcquired
		}
		if opts.RetryDelay <= 0 {
			continue
		}
		t := time.NewTimer(opts.RetryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
