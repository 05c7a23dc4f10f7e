package queue

import "context"

// Publisher delivers seat events.  Publishing is best effort: callers log
// a returned error and carry on, the write it describes has already
// committed.
type Publisher interface {
	Publish(ctx context.Context, ev SeatEvent) error
	Close() error
}

// NopPublisher drops every event.  It is used when EVENTS_BROKER=none.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, SeatEvent) error { return nil }
func (NopPublisher) Close() error                             { return nil }
