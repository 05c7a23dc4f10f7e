package lock

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Backend names.
const (
	BackendRedis = "redis"
	BackendLocal = "local"
)

// ErrNoBackend is returned by New when the Redis backend is selected but
// no Redis client is available.
var ErrNoBackend = errors.New("lock: redis backend selected without a redis client")

// New returns the Locker for backend.  The local backend must be chosen
// explicitly: it only excludes writers inside one process.
func New(backend string, rdb *redis.Client, opts Options) (Locker, error) {
	switch backend {
	case BackendLocal:
		return NewLocalLocker(opts), nil
	case BackendRedis, "":
		if rdb == nil {
			return nil, ErrNoBackend
		}
		return NewRedisLocker(rdb, opts), nil
	}
	return nil, fmt.Errorf("lock: unknown backend %q", backend)
}
