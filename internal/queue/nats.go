package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/iliyamo/room-seat-reservation/internal/logging"
)

// NATSPublisher publishes events on NATS subjects named after the event
// type.  The client library reconnects on its own.
type NATSPublisher struct {
	nc  *nats.Conn
	log logging.Logger
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url string, log logging.Logger) (*NATSPublisher, error) {
	if log == nil {
		log = logging.Discard()
	}
	nc, err := nats.Connect(url,
		nats.Name("room-seat-reservation"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("nats: disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("nats: reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{nc: nc, log: log}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, ev SeatEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(ev.Subject(), body); err != nil {
		p.log.Warnf("nats: publish %s failed: %v", ev.Subject(), err)
		return err
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
		p.log.Warnf("nats: flush on close: %v", err)
	}
	p.nc.Close()
	return nil
}
