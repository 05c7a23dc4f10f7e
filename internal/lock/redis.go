package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds the caller's
// token, so a holder whose lock expired cannot free someone else's.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLocker implements Locker with SET NX PX on a single Redis server.
type RedisLocker struct {
	rdb  *redis.Client
	opts Options
	now  func() time.Time
}

// NewRedisLocker returns a Locker backed by rdb.
func NewRedisLocker(rdb *redis.Client, opts Options) *RedisLocker {
	return &RedisLocker{rdb: rdb, opts: opts, now: time.Now}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	token := uuid.NewString()
	err := retry(ctx, l.opts, func() (bool, error) {
		return l.rdb.SetNX(ctx, key, token, ttl).Result()
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &Lock{Key: key, Token: token, ExpiresAt: l.now().Add(ttl)}, nil
}

func (l *RedisLocker) Release(ctx context.Context, lk *Lock) error {
	n, err := releaseScript.Run(ctx, l.rdb, []string{lk.Key}, lk.Token).Int64()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", lk.Key, ErrNotHeld)
	}
	return nil
}
