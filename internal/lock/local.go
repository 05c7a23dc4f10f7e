package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocalLocker implements Locker inside one process.  It is selected with
// LOCK_BACKEND=local for single-instance deployments and tests; it gives
// no protection across instances.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]localEntry
	opts  Options
	now   func() time.Time
	grant int // acquisitions since the last sweep
}

// sweepEvery is how many acquisitions pass between sweeps of expired
// entries.
const sweepEvery = 64

type localEntry struct {
	token   string
	expires time.Time
}

// NewLocalLocker returns an empty LocalLocker.
func NewLocalLocker(opts Options) *LocalLocker {
	return &LocalLocker{held: make(map[string]localEntry), opts: opts, now: time.Now}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	token := uuid.NewString()
	var expires time.Time
	err := retry(ctx, l.opts, func() (bool, error) {
		l.mu.Lock()
		defer l.mu.Unlock()
		now := l.now()
		if e, ok := l.held[key]; ok && now.Before(e.expires) {
			return false, nil
		}
		expires = now.Add(ttl)
		l.held[key] = localEntry{token: token, expires: expires}
		if l.grant++; l.grant >= sweepEvery {
			l.sweep(now)
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &Lock{Key: key, Token: token, ExpiresAt: expires}, nil
}

func (l *LocalLocker) Release(_ context.Context, lk *Lock) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.held[lk.Key]
	if !ok {
		return fmt.Errorf("%s: %w", lk.Key, ErrNotHeld)
	}
	if !l.now().Before(e.expires) {
		delete(l.held, lk.Key)
		return fmt.Errorf("%s: %w", lk.Key, ErrNotHeld)
	}
	if e.token != lk.Token {
		return fmt.Errorf("%s: %w", lk.Key, ErrNotHeld)
	}
	delete(l.held, lk.Key)
	return nil
}

// sweep drops expired entries.  The caller holds l.mu.
func (l *LocalLocker) sweep(now time.Time) {
	for k, e := range l.held {
		if !now.Before(e.expires) {
			delete(l.held, k)
		}
	}
	l.grant = 0
}

// size reports the number of entries, expired or not.
func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
