// Package repository implements MySQL data access for rooms and seats.
// Lookups that find nothing return the sentinels below; they wrap the
// model kinds so the transport layer can map them without importing this
// package.
package repository

import (
	"fmt"

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// ErrRoomNotFound is returned when a room lookup yields no active row.
var ErrRoomNotFound = fmt.Errorf("repository: %w", model.ErrRoomNotFound)

// ErrSeatNotFound is returned when a seat lookup or a batch delete does not
// match every requested row.
var ErrSeatNotFound = fmt.Errorf("repository: %w", model.ErrSeatNotFound)
