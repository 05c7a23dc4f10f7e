package model

import "time"

// Seat is an occupied cell of a room.  Seats only exist once reserved and
// disappear when cancelled; there is no in-place update.  Two seats are the
// same seat when their coordinates match, regardless of ID.
//
// Fields:
//  ID        – seat.id, zero until persisted.
//  RoomID    – owning room.
//  PosX      – row index, 0 <= PosX < room rows.
//  PosY      – column index, 0 <= PosY < room cols.
//  IsDeleted – soft-delete flag, set when the owning room is removed.
type Seat struct {
	ID        uint64    `json:"id"`         // seat.id
	RoomID    uint64    `json:"room_id"`    // seat.room_id
	PosX      int       `json:"pos_x"`      // seat.pos_x
	PosY      int       `json:"pos_y"`      // seat.pos_y
	IsDeleted bool      `json:"is_deleted"` // seat.is_deleted
	CreatedAt time.Time `json:"created_at"` // seat.created_at
	UpdatedAt time.Time `json:"updated_at"` // seat.updated_at
}

// Coord returns the seat's position.
func (s Seat) Coord() Coord { return Coord{X: s.PosX, Y: s.PosY} }

// SeatAt builds an unsaved seat for a coordinate.
func SeatAt(c Coord) Seat { return Seat{PosX: c.X, PosY: c.Y} }
