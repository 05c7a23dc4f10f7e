// Package service coordinates room and seat operations.  Reads go through
// the cache; writes validate, lock the affected cells, re-validate against
// storage, persist, invalidate the cache and release the locks, in that
// order.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/room-seat-reservation/internal/cache"
	"github.com/iliyamo/room-seat-reservation/internal/lock"
	"github.com/iliyamo/room-seat-reservation/internal/logging"
	"github.com/iliyamo/room-seat-reservation/internal/model"
	"github.com/iliyamo/room-seat-reservation/internal/queue"
)

// RoomStore persists rooms.  GetByID and SoftDelete report a missing or
// deleted room with an error of kind room_not_found.
type RoomStore interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	ListActive(ctx context.Context) ([]model.Room, error)
	SoftDelete(ctx context.Context, id uint64) error
}

// SeatStore persists the occupied seats of rooms.  Lookups that do not
// match report an error of kind seat_not_found.
type SeatStore interface {
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Seat, error)
	GetByIDAndRoom(ctx context.Context, roomID, seatID uint64) (*model.Seat, error)
	GetByIDs(ctx context.Context, roomID uint64, ids []uint64) ([]model.Seat, error)
	CreateMany(ctx context.Context, roomID uint64, coords []model.Coord) ([]model.Seat, error)
	DeleteMany(ctx context.Context, roomID uint64, ids []uint64) error
}

// Cache is the read-through JSON cache.  GetJSON reports a miss as false
// with a nil error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// Options are the tunables of a Service.
type Options struct {
	MinDistance int           // default spacing for AvailableSeats and ReserveSeats
	LockTTL     time.Duration // lifetime of each seat lock
	KeyPrefix   string        // namespace of cache and lock keys
	MaxRoomDim  int           // largest rows or cols AddRoom accepts
}

// DefaultMaxRoomDim applies when Options.MaxRoomDim is not positive.
const DefaultMaxRoomDim = 500

// Service is long-lived and safe for concurrent use.
type Service struct {
	rooms  RoomStore
	seats  SeatStore
	cache  Cache
	keys   cache.Keys
	locker lock.Locker
	events queue.Publisher
	log    logging.Logger
	opts   Options
	now    func() time.Time
}

// New wires a Service.  A nil publisher disables events and a nil logger
// discards output.
func New(rooms RoomStore, seats SeatStore, c Cache, locker lock.Locker, events queue.Publisher, log logging.Logger, opts Options) *Service {
	if events == nil {
		events = queue.NopPublisher{}
	}
	if log == nil {
		log = logging.Discard()
	}
	if opts.MinDistance < 0 {
		opts.MinDistance = 0
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Second
	}
	if opts.MaxRoomDim <= 0 {
		opts.MaxRoomDim = DefaultMaxRoomDim
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "room-svc"
	}
	return &Service{
		rooms:  rooms,
		seats:  seats,
		cache:  c,
		keys:   cache.Keys{Prefix: opts.KeyPrefix},
		locker: locker,
		events: events,
		log:    log,
		opts:   opts,
		now:    time.Now,
	}
}

// MinDistance returns the configured default spacing.
func (s *Service) MinDistance() int { return s.opts.MinDistance }

// storageErr keeps kinded errors as they are and files everything else
// under persistence_failure.
func storageErr(op string, err error) error {
	if model.KindOf(err) != model.KindInternal {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrPersistenceFailure, err)
}

// readThrough returns the cached value under key or loads, stores and
// returns it.  Cache errors are logged and treated as a miss.
func readThrough[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	var v T
	hit, err := s.cache.GetJSON(ctx, key, &v)
	if err != nil {
		s.log.Warnf("cache get %s: %v", key, err)
	}
	if hit {
		return v, nil
	}
	v, err = load()
	if err != nil {
		return v, err
	}
	if err := s.cache.SetJSON(ctx, key, v); err != nil {
		s.log.Warnf("cache set %s: %v", key, err)
	}
	return v, nil
}

// invalidate deletes keys and every key matching patterns.  Failures are
// logged; the TTL bounds how long a surviving entry can be served.
func (s *Service) invalidate(ctx context.Context, keys []string, patterns ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warnf("cache delete %v: %v", keys, err)
	}
	for _, p := range patterns {
		if _, err := s.cache.DeleteByPattern(ctx, p); err != nil {
			s.log.Warnf("cache delete pattern %s: %v", p, err)
		}
	}
}

// publish sends ev after the write has committed.  It runs detached from
// the request's cancellation so a client hanging up does not drop it.
func (s *Service) publish(ctx context.Context, ev queue.SeatEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warnf("publish %s for room %d: %v", ev.Type, ev.RoomID, err)
	}
}

var errEmptyRequest = errors.New("at least one seat is required")
