// Package cache is a read-through JSON cache kept in Redis.  Entries are
// written on a read miss with a fixed TTL and deleted by the writers that
// change them.  The TTL bounds how long a missed invalidation can serve
// stale data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-seat-reservation/internal/logging"
)

// DefaultTTL applies when New is given a non-positive TTL.
const DefaultTTL = 600 * time.Second

// scanBatch is the COUNT hint passed to SCAN and the size of each DEL.
const scanBatch = 200

// Store reads and writes JSON values.  A Store built with a nil client is
// valid: every read misses and every write is a no-op.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
	log logging.Logger
}

// New returns a Store over rdb.
func New(rdb *redis.Client, ttl time.Duration, log logging.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Store{rdb: rdb, ttl: ttl, log: log}
}

// Enabled reports whether the store is backed by Redis.
func (s *Store) Enabled() bool { return s != nil && s.rdb != nil }

// TTL returns the lifetime applied to every entry.
func (s *Store) TTL() time.Duration { return s.ttl }

// GetJSON loads key into dst.  It reports false with a nil error on a
// miss.  An entry that cannot be decoded is deleted and reported as a miss.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warnf("cache: dropping undecodable entry %s: %v", key, err)
		_ = s.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// SetJSON stores v under key with the store's TTL.
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	if !s.Enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, s.ttl).Err()
}

// Delete removes the given keys.  Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// DeleteByPattern removes every key matching pattern and returns how many
// were deleted.  It walks the keyspace with SCAN so Redis is never blocked
// by a KEYS call.  Matches are collected over the whole scan before the
// first DEL; deleting while the cursor is live can make SCAN skip keys.
func (s *Store) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	var matched []string
	iter := s.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		matched = append(matched, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}

	deleted := 0
	for start := 0; start < len(matched); start += scanBatch {
		end := min(start+scanBatch, len(matched))
		n, err := s.rdb.Del(ctx, matched[start:end]...).Result()
		if err != nil {
			return deleted, err
		}
		deleted += int(n)
	}
	return deleted, nil
}
