package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/room-seat-reservation/internal/model"
	"github.com/iliyamo/room-seat-reservation/internal/queue"
)

// CancelSeats frees the given seats of a room and returns them.  Every id
// must name a seat of that room; otherwise nothing is cancelled.
func (s *Service) CancelSeats(ctx context.Context, roomID uint64, seatIDs []uint64) ([]model.Seat, error) {
	seatIDs = uniqueIDs(seatIDs)
	if len(seatIDs) == 0 {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidArgument, errEmptyRequest)
	}

	// The seat set comes from storage: a cached list may predate a
	// reservation that is about to be cancelled.
	room, err := s.loadRoom(ctx, roomID, true)
	if err != nil {
		return nil, err
	}
	found, err := s.seats.GetByIDs(ctx, roomID, seatIDs)
	if err != nil {
		return nil, storageErr("resolve seats", err)
	}
	byID := make(map[uint64]model.Seat, len(found))
	for _, seat := range found {
		byID[seat.ID] = seat
	}
	// Request order decides lock order.
	targets := make([]model.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		seat, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: seat %d in room %d", model.ErrSeatNotFound, id, roomID)
		}
		targets = append(targets, seat)
	}
	if err := room.RemoveSeats(targets); err != nil {
		return nil, err
	}

	if err := s.cancelLocked(ctx, roomID, targets); err != nil {
		return nil, err
	}
	s.log.Infof("room %d: cancelled %d seat(s)", roomID, len(targets))
	s.publish(ctx, queue.NewSeatEvent(queue.SeatsCancelled, roomID, targets, s.now()))
	return targets, nil
}

func (s *Service) cancelLocked(ctx context.Context, roomID uint64, targets []model.Seat) error {
	coords := make([]model.Coord, len(targets))
	ids := make([]uint64, len(targets))
	for i, seat := range targets {
		coords[i] = seat.Coord()
		ids[i] = seat.ID
	}

	held, err := s.acquire(ctx, roomID, coords)
	if err != nil {
		return err
	}
	defer s.release(held)

	// The delete locks the rows and rejects the batch if any of them is
	// already gone.
	if err := s.seats.DeleteMany(ctx, roomID, ids); err != nil {
		return storageErr("cancel seats", err)
	}

	keys := []string{s.keys.SeatList(roomID)}
	for _, id := range ids {
		keys = append(keys, s.keys.Seat(roomID, id))
	}
	s.invalidate(ctx, keys, s.keys.AvailablePattern(roomID))
	return nil
}

// uniqueIDs drops repeated ids while keeping first-occurrence order.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
