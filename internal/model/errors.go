// Package model holds the room and seat types together with the grid rules
// that every reservation must satisfy.  This file defines the error kinds
// shared by every layer.  Callers wrap the sentinels with %w and the
// transport layer reads the kind back with KindOf, so no layer ever has to
// match on error text.
package model

import "errors"

// Kind classifies a failure so that adapters can translate it into a
// transport status.
type Kind string

const (
	KindInvalidArgument    Kind = "invalid_argument"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindDuplicateSeat      Kind = "duplicate_seat"
	KindAlreadyOccupied    Kind = "already_occupied"
	KindSeatNotFound       Kind = "seat_not_found"
	KindNotAvailable       Kind = "not_available"
	KindLockUnavailable    Kind = "lock_unavailable"
	KindPersistenceFailure Kind = "persistence_failure"
	KindRoomNotFound       Kind = "room_not_found"
	KindInternal           Kind = "internal"
)

// Error is a kinded sentinel.  Compare with errors.Is against the exported
// values below.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

var (
	ErrInvalidArgument    = &Error{Kind: KindInvalidArgument, msg: "invalid argument"}
	ErrOutOfBounds        = &Error{Kind: KindOutOfBounds, msg: "seat out of bounds"}
	ErrDuplicateSeat      = &Error{Kind: KindDuplicateSeat, msg: "seat already in room"}
	ErrAlreadyOccupied    = &Error{Kind: KindAlreadyOccupied, msg: "seat already occupied"}
	ErrSeatNotFound       = &Error{Kind: KindSeatNotFound, msg: "seat not found"}
	ErrNotAvailable       = &Error{Kind: KindNotAvailable, msg: "seat not available"}
	ErrLockUnavailable    = &Error{Kind: KindLockUnavailable, msg: "seat lock unavailable"}
	ErrPersistenceFailure = &Error{Kind: KindPersistenceFailure, msg: "persistence failure"}
	ErrRoomNotFound       = &Error{Kind: KindRoomNotFound, msg: "room not found"}
)

// KindOf returns the kind of the first kinded error found in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
