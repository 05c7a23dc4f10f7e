package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/iliyamo/room-seat-reservation/internal/availability"
	"github.com/iliyamo/room-seat-reservation/internal/lock"
	"github.com/iliyamo/room-seat-reservation/internal/model"
	"github.com/iliyamo/room-seat-reservation/internal/queue"
)

// ReserveSeats occupies the given cells of a room and returns the stored
// seats.  Every cell must be inside the grid, free, and at least the
// configured minimum distance from every occupied seat.  Distances between
// cells of the same request are not checked.  The request either
// succeeds for every cell or changes nothing.
func (s *Service) ReserveSeats(ctx context.Context, roomID uint64, coords []model.Coord) ([]model.Seat, error) {
	coords = uniqueCoords(coords)
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidArgument, errEmptyRequest)
	}

	// Cheap rejection from cached state before touching any lock.
	room, err := s.loadRoom(ctx, roomID, false)
	if err != nil {
		return nil, err
	}
	avail, err := s.cachedAvailability(ctx, room, s.opts.MinDistance)
	if err != nil {
		return nil, err
	}
	if err := admit(room, coords, avail); err != nil {
		return nil, err
	}

	seats, err := s.reserveLocked(ctx, roomID, coords)
	if err != nil {
		return nil, err
	}
	s.log.Infof("room %d: reserved %d seat(s)", roomID, len(seats))
	s.publish(ctx, queue.NewSeatEvent(queue.SeatsReserved, roomID, seats, s.now()))
	return seats, nil
}

// reserveLocked holds the cell locks for the duration of the re-check,
// the insert and the cache invalidation.
func (s *Service) reserveLocked(ctx context.Context, roomID uint64, coords []model.Coord) ([]model.Seat, error) {
	held, err := s.acquire(ctx, roomID, coords)
	if err != nil {
		return nil, err
	}
	defer s.release(held)

	// Another request may have committed between the cached check and the
	// lock; repeat the checks against storage.
	room, err := s.loadRoom(ctx, roomID, true)
	if err != nil {
		return nil, err
	}
	avail := availability.Compute(room.Rows, room.Cols, room.Occupied(), s.opts.MinDistance)
	if err := admit(room, coords, avail); err != nil {
		return nil, err
	}

	seats, err := s.seats.CreateMany(ctx, roomID, coords)
	if err != nil {
		return nil, storageErr("reserve seats", err)
	}

	keys := []string{s.keys.SeatList(roomID)}
	for _, seat := range seats {
		keys = append(keys, s.keys.Seat(roomID, seat.ID))
	}
	s.invalidate(ctx, keys, s.keys.AvailablePattern(roomID))
	return seats, nil
}

// admit checks coords against room and the availability set computed for
// it: bounds first, then occupancy, then spacing.  It adds the cells to
// room, so callers pass a room they are about to discard.
func admit(room *model.Room, coords []model.Coord, avail []model.Coord) error {
	candidates := make([]model.Seat, len(coords))
	for i, c := range coords {
		candidates[i] = model.SeatAt(c)
	}
	if err := room.AddSeats(candidates); err != nil {
		if errors.Is(err, model.ErrDuplicateSeat) {
			return fmt.Errorf("%w: %w", model.ErrAlreadyOccupied, err)
		}
		return err
	}
	for _, c := range coords {
		if !availability.Contains(avail, c) {
			return fmt.Errorf("%w: (%d,%d) is closer than the minimum distance to an occupied seat", model.ErrNotAvailable, c.X, c.Y)
		}
	}
	return nil
}

// acquire takes one lock per cell in the given order.  If any lock cannot
// be taken the ones already held are released and lock_unavailable is
// returned.
func (s *Service) acquire(ctx context.Context, roomID uint64, coords []model.Coord) ([]*lock.Lock, error) {
	held := make([]*lock.Lock, 0, len(coords))
	for _, c := range coords {
		l, err := s.locker.Acquire(ctx, s.keys.SeatLock(roomID, c), s.opts.LockTTL)
		if err != nil {
			s.release(held)
			return nil, fmt.Errorf("%w: (%d,%d): %w", model.ErrLockUnavailable, c.X, c.Y, err)
		}
		held = append(held, l)
	}
	return held, nil
}

// release frees held locks in reverse order.  It does not take the
// request context so a cancelled request still releases.
func (s *Service) release(held []*lock.Lock) {
	ctx := context.Background()
	for _, l := range slices.Backward(held) {
		if err := s.locker.Release(ctx, l); err != nil {
			s.log.Warnf("release %s: %v", l.Key, err)
		}
	}
}

// uniqueCoords drops repeated cells while keeping first-occurrence order.
func uniqueCoords(coords []model.Coord) []model.Coord {
	seen := make(map[model.Coord]struct{}, len(coords))
	out := make([]model.Coord, 0, len(coords))
	for _, c := range coords {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
