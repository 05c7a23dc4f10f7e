package cache

import (
	"fmt"

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// Keys builds every Redis key the service writes.  All room-scoped
// entries live under "<prefix>:rooms:<id>:" so a single pattern removes
// them; seat locks sit in a separate "<prefix>:lock:" namespace and are
// never matched by a cache invalidation pattern.
type Keys struct {
	Prefix string
}

// RoomList is the key of the active room list.
func (k Keys) RoomList() string { return k.Prefix + ":rooms" }

// Room is the key of one room record.
func (k Keys) Room(roomID uint64) string {
	return fmt.Sprintf("%s:rooms:%d", k.Prefix, roomID)
}

// SeatList is the key of the occupied seats of a room.
func (k Keys) SeatList(roomID uint64) string {
	return fmt.Sprintf("%s:rooms:%d:seats", k.Prefix, roomID)
}

// Seat is the key of one seat record.
func (k Keys) Seat(roomID, seatID uint64) string {
	return fmt.Sprintf("%s:rooms:%d:seats:%d", k.Prefix, roomID, seatID)
}

// Available is the key of an availability set computed at minDistance.
func (k Keys) Available(roomID uint64, minDistance int) string {
	return fmt.Sprintf("%s:rooms:%d:available:%d", k.Prefix, roomID, minDistance)
}

// AvailablePattern matches every availability set of a room.
func (k Keys) AvailablePattern(roomID uint64) string {
	return fmt.Sprintf("%s:rooms:%d:available:*", k.Prefix, roomID)
}

// RoomScope matches every entry nested under a room.  The room record
// itself is not matched; delete Room(roomID) alongside it.
func (k Keys) RoomScope(roomID uint64) string {
	return fmt.Sprintf("%s:rooms:%d:*", k.Prefix, roomID)
}

// SeatLock is the lock key guarding one cell of a room.
func (k Keys) SeatLock(roomID uint64, c model.Coord) string {
	return fmt.Sprintf("%s:lock:rooms:%d:seats:%d:%d", k.Prefix, roomID, c.X, c.Y)
}
