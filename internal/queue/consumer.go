package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/room-seat-reservation/internal/logging"
)

// StartSeatEventConsumer connects to RabbitMQ, declares both seat event
// queues and appends every delivered event to logPath as one line.  It
// reconnects with backoff until ctx is cancelled, then returns ctx.Err().
// A message that cannot be handled is rejected without requeue so a bad
// payload cannot loop.
func StartSeatEventConsumer(ctx context.Context, url, logPath string, log logging.Logger) error {
	if log == nil {
		log = logging.Discard()
	}
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warnf("seat-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logPath, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warnf("seat-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logPath string, log logging.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warnf("seat-consumer: set QoS failed: %v", err)
	}

	// One merged stream for both queues.
	deliveries := make(chan amqp.Delivery)
	done := make(chan struct{})
	defer close(done)
	subscribed := 0
	for _, name := range []EventType{SeatsReserved, SeatsCancelled} {
		if err := declareQueue(ch, string(name)); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(string(name), "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		subscribed++
		go func(msgs <-chan amqp.Delivery) {
			for d := range msgs {
				select {
				case deliveries <- d:
				case <-done:
					return
				}
			}
			select {
			case deliveries <- amqp.Delivery{}:
			case <-done:
			}
		}(msgs)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-deliveries:
			if d.Acknowledger == nil {
				// A source closed; the channel is gone.
				return errors.New("deliveries channel closed")
			}
			if err := appendEvent(logPath, d.Body); err != nil {
				log.Errorf("seat-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// appendEvent decodes body and appends its log line to path.
func appendEvent(path string, body []byte) error {
	var ev SeatEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// formatLine renders ev as a single human-readable line ending in "\n".
func formatLine(ev SeatEvent) string {
	seats := make([]string, len(ev.Seats))
	for i, s := range ev.Seats {
		seats[i] = fmt.Sprintf("%d@(%d,%d)", s.ID, s.PosX, s.PosY)
	}
	verb := "Seats reserved"
	if ev.Type == SeatsCancelled {
		verb = "Seats cancelled"
	}
	return fmt.Sprintf("[%s] %s | room_id=%d | count=%d | seats=[%s]\n",
		ev.OccurredAt, verb, ev.RoomID, len(ev.Seats), strings.Join(seats, ","))
}
