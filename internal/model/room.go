package model

import (
	"fmt"
	"slices"
	"time"
)

// Room is a rectangular grid of Rows x Cols seat positions.  The seats
// currently occupied are kept in a slice sorted by (PosX, PosY); every
// mutation keeps that order so Seats never has to sort.
//
// Fields:
//  ID        – room.id, zero until persisted.
//  Rows      – number of rows, always >= 1.
//  Cols      – number of columns, always >= 1.
//  IsDeleted – soft-delete flag.
type Room struct {
	ID        uint64    `json:"id"`         // room.id
	Rows      int       `json:"rows"`       // room.rows
	Cols      int       `json:"cols"`       // room.cols
	IsDeleted bool      `json:"is_deleted"` // room.is_deleted
	CreatedAt time.Time `json:"created_at"` // room.created_at
	UpdatedAt time.Time `json:"updated_at"` // room.updated_at

	seats []Seat
}

// NewRoom returns an empty room after checking its dimensions.
func NewRoom(rows, cols int) (*Room, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: rows and cols must be >= 1, got %dx%d", ErrInvalidArgument, rows, cols)
	}
	return &Room{Rows: rows, Cols: cols}, nil
}

// Validate reports whether c lies inside the grid.
func (r *Room) Validate(c Coord) error {
	if c.X < 0 || c.Y < 0 || c.X >= r.Rows || c.Y >= r.Cols {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d room", ErrOutOfBounds, c.X, c.Y, r.Rows, r.Cols)
	}
	return nil
}

// Seats returns the occupied seats ordered by row then column.
func (r *Room) Seats() []Seat {
	return slices.Clone(r.seats)
}

// Occupied returns the coordinates of the occupied seats in grid order.
func (r *Room) Occupied() []Coord {
	out := make([]Coord, len(r.seats))
	for i, s := range r.seats {
		out[i] = s.Coord()
	}
	return out
}

// Contains reports whether the cell at c is occupied.
func (r *Room) Contains(c Coord) bool {
	_, ok := r.find(c)
	return ok
}

// IsFull reports whether every cell of the grid is occupied.
func (r *Room) IsFull() bool {
	return len(r.seats) == r.Rows*r.Cols
}

// SetSeats replaces the occupied set, typically with rows loaded from
// storage.  It fails without modifying the room if a seat is out of bounds
// or two seats share a position.
func (r *Room) SetSeats(seats []Seat) error {
	next := make([]Seat, 0, len(seats))
	for _, s := range seats {
		if err := r.Validate(s.Coord()); err != nil {
			return err
		}
		i, found := slices.BinarySearchFunc(next, s.Coord(), compareSeatCoord)
		if found {
			return fmt.Errorf("%w: (%d,%d)", ErrDuplicateSeat, s.PosX, s.PosY)
		}
		next = slices.Insert(next, i, s)
	}
	r.seats = next
	return nil
}

// AddSeats occupies the given seats.  Bounds are checked for every seat
// before anything else; then any seat already in the room fails the whole
// call with ErrDuplicateSeat.  Repeats inside the batch collapse into one
// seat.
func (r *Room) AddSeats(seats []Seat) error {
	for _, s := range seats {
		if err := r.Validate(s.Coord()); err != nil {
			return err
		}
	}
	for _, s := range seats {
		if r.Contains(s.Coord()) {
			return fmt.Errorf("%w: (%d,%d)", ErrDuplicateSeat, s.PosX, s.PosY)
		}
	}
	for _, s := range seats {
		i, found := r.find(s.Coord())
		if found {
			continue
		}
		r.seats = slices.Insert(r.seats, i, s)
	}
	return nil
}

// RemoveSeats frees the given seats.  The call fails as a whole when a
// seat is out of bounds or not occupied.
func (r *Room) RemoveSeats(seats []Seat) error {
	for _, s := range seats {
		if err := r.Validate(s.Coord()); err != nil {
			return err
		}
	}
	for _, s := range seats {
		if !r.Contains(s.Coord()) {
			return fmt.Errorf("%w: (%d,%d) is not occupied", ErrSeatNotFound, s.PosX, s.PosY)
		}
	}
	for _, s := range seats {
		if i, found := r.find(s.Coord()); found {
			r.seats = slices.Delete(r.seats, i, i+1)
		}
	}
	return nil
}

func (r *Room) find(c Coord) (int, bool) {
	return slices.BinarySearchFunc(r.seats, c, compareSeatCoord)
}

func compareSeatCoord(s Seat, c Coord) int {
	return s.Coord().Compare(c)
}
