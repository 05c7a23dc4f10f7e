// Package queue defines the seat events published after a reservation or a
// cancellation commits, the publishers that carry them to RabbitMQ or NATS,
// and a RabbitMQ consumer that records them in a log file.
package queue

import (
	"time"

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// EventType names what happened to the seats of an event.
type EventType string

const (
	SeatsReserved  EventType = "seats.reserved"
	SeatsCancelled EventType = "seats.cancelled"
)

// SeatRef is the part of a seat carried by an event.
type SeatRef struct {
	ID   uint64 `json:"id"`
	PosX int    `json:"pos_x"`
	PosY int    `json:"pos_y"`
}

// SeatEvent is published once per committed reservation or cancellation.
// It carries enough for a consumer to log or notify without querying the
// database.
type SeatEvent struct {
	Type       EventType `json:"type"`
	RoomID     uint64    `json:"room_id"`
	Seats      []SeatRef `json:"seats"`
	OccurredAt string    `json:"occurred_at"` // RFC 3339, UTC
}

// NewSeatEvent builds an event for seats of room roomID.
func NewSeatEvent(typ EventType, roomID uint64, seats []model.Seat, at time.Time) SeatEvent {
	refs := make([]SeatRef, len(seats))
	for i, s := range seats {
		refs[i] = SeatRef{ID: s.ID, PosX: s.PosX, PosY: s.PosY}
	}
	return SeatEvent{
		Type:       typ,
		RoomID:     roomID,
		Seats:      refs,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}

// Subject is the queue name (RabbitMQ) or subject (NATS) an event goes to.
func (e SeatEvent) Subject() string { return string(e.Type) }
