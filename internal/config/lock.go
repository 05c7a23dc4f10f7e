package config

import (
	"strings"
	"time"

	"github.com/iliyamo/room-seat-reservation/internal/lock"
)

// Lock backends accepted by LOCK_BACKEND.
const (
	LockBackendRedis = lock.BackendRedis
	LockBackendLocal = lock.BackendLocal
)

// LockConfig controls the per-seat locks taken while a reservation or a
// cancellation is being written.  TTL is how long a lock survives if its
// holder dies without releasing it.  RetryCount and RetryDelay bound how
// long Acquire keeps trying before reporting the seat as locked.
// Backend is "redis" unless LOCK_BACKEND=local opts into process-local
// locks, which only hold for a single instance.
type LockConfig struct {
	Backend    string
	TTL        time.Duration
	RetryCount int
	RetryDelay time.Duration
}

func LoadLockConfig() LockConfig {
	cfg := LockConfig{
		Backend:    strings.ToLower(envStr("LOCK_BACKEND", LockBackendRedis)),
		TTL:        envDur("LOCK_TTL", 10*time.Second),
		RetryCount: envInt("LOCK_RETRY_COUNT", 3),
		RetryDelay: envDur("LOCK_RETRY_DELAY", 200*time.Millisecond),
	}
	if cfg.Backend != LockBackendLocal {
		cfg.Backend = LockBackendRedis
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	return cfg
}
