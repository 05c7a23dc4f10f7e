package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/room-seat-reservation/internal/availability"
	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// AddRoom creates an empty rows x cols room.  Neither dimension may exceed
// Options.MaxRoomDim.
func (s *Service) AddRoom(ctx context.Context, rows, cols int) (*model.Room, error) {
	room, err := model.NewRoom(rows, cols)
	if err != nil {
		return nil, err
	}
	if rows > s.opts.MaxRoomDim || cols > s.opts.MaxRoomDim {
		return nil, fmt.Errorf("%w: rows and cols must be <= %d, got %dx%d", model.ErrInvalidArgument, s.opts.MaxRoomDim, rows, cols)
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, storageErr("add room", err)
	}
	s.invalidate(ctx, []string{s.keys.RoomList()})
	s.log.Infof("room %d created (%dx%d)", room.ID, room.Rows, room.Cols)
	return room, nil
}

// RemoveRoom soft-deletes a room together with its seats and drops every
// cache entry of the room.
func (s *Service) RemoveRoom(ctx context.Context, roomID uint64) error {
	if err := s.rooms.SoftDelete(ctx, roomID); err != nil {
		return storageErr("remove room", err)
	}
	s.invalidate(ctx, []string{s.keys.RoomList(), s.keys.Room(roomID)}, s.keys.RoomScope(roomID))
	s.log.Infof("room %d removed", roomID)
	return nil
}

// ListRooms returns the rooms that are not deleted.
func (s *Service) ListRooms(ctx context.Context) ([]model.Room, error) {
	return readThrough(ctx, s, s.keys.RoomList(), func() ([]model.Room, error) {
		rooms, err := s.rooms.ListActive(ctx)
		if err != nil {
			return nil, storageErr("list rooms", err)
		}
		return rooms, nil
	})
}

// GetRoom returns one room without its seats.
func (s *Service) GetRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
	room, err := readThrough(ctx, s, s.keys.Room(roomID), func() (*model.Room, error) {
		room, err := s.rooms.GetByID(ctx, roomID)
		if err != nil {
			return nil, storageErr("get room", err)
		}
		return room, nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// ListSeats returns the occupied seats of a room ordered by position.
func (s *Service) ListSeats(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.cachedSeats(ctx, roomID)
}

// GetSeat returns one occupied seat of a room.
func (s *Service) GetSeat(ctx context.Context, roomID, seatID uint64) (*model.Seat, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return readThrough(ctx, s, s.keys.Seat(roomID, seatID), func() (*model.Seat, error) {
		seat, err := s.seats.GetByIDAndRoom(ctx, roomID, seatID)
		if err != nil {
			return nil, storageErr("get seat", err)
		}
		return seat, nil
	})
}

// AvailableSeats returns the cells that can be offered at the configured
// minimum distance.
func (s *Service) AvailableSeats(ctx context.Context, roomID uint64) ([]model.Coord, error) {
	return s.AvailableSeatsAt(ctx, roomID, s.opts.MinDistance)
}

// AvailableSeatsAt returns the cells that can be offered at minDistance.
func (s *Service) AvailableSeatsAt(ctx context.Context, roomID uint64, minDistance int) ([]model.Coord, error) {
	if minDistance < 0 {
		return nil, fmt.Errorf("%w: min_distance must be >= 0, got %d", model.ErrInvalidArgument, minDistance)
	}
	room, err := s.loadRoom(ctx, roomID, false)
	if err != nil {
		return nil, err
	}
	return s.cachedAvailability(ctx, room, minDistance)
}

func (s *Service) cachedSeats(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	return readThrough(ctx, s, s.keys.SeatList(roomID), func() ([]model.Seat, error) {
		seats, err := s.seats.ListByRoom(ctx, roomID)
		if err != nil {
			return nil, storageErr("list seats", err)
		}
		return seats, nil
	})
}

// cachedAvailability clamps minDistance to the room's diameter first, so a
// room has at most rows+cols availability entries.
func (s *Service) cachedAvailability(ctx context.Context, room *model.Room, minDistance int) ([]model.Coord, error) {
	minDistance = availability.ClampDistance(room.Rows, room.Cols, minDistance)
	return readThrough(ctx, s, s.keys.Available(room.ID, minDistance), func() ([]model.Coord, error) {
		return availability.Compute(room.Rows, room.Cols, room.Occupied(), minDistance), nil
	})
}

// loadRoom returns a room with its occupied seats.  With fresh set both
// the room and its seats are read from storage, bypassing the cache.
func (s *Service) loadRoom(ctx context.Context, roomID uint64, fresh bool) (*model.Room, error) {
	var (
		room  *model.Room
		seats []model.Seat
		err   error
	)
	if fresh {
		if room, err = s.rooms.GetByID(ctx, roomID); err != nil {
			return nil, storageErr("get room", err)
		}
		if seats, err = s.seats.ListByRoom(ctx, roomID); err != nil {
			return nil, storageErr("list seats", err)
		}
	} else {
		if room, err = s.GetRoom(ctx, roomID); err != nil {
			return nil, err
		}
		if seats, err = s.cachedSeats(ctx, roomID); err != nil {
			return nil, err
		}
	}
	if err := room.SetSeats(seats); err != nil {
		return nil, fmt.Errorf("room %d holds inconsistent seats: %w", roomID, err)
	}
	return room, nil
}
