package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/iliyamo/room-seat-reservation/internal/model"
	"github.com/iliyamo/room-seat-reservation/internal/queue"
)

type memRooms struct {
	mu    sync.Mutex
	rooms map[uint64]model.Room
	next  uint64
}

func newMemRooms() *memRooms { return &memRooms{rooms: map[uint64]model.Room{}} }

func (m *memRooms) Create(_ context.Context, room *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	now := time.Now().UTC().Truncate(time.Second)
	room.ID, room.CreatedAt, room.UpdatedAt = m.next, now, now
	m.rooms[room.ID] = model.Room{ID: room.ID, Rows: room.Rows, Cols: room.Cols, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (m *memRooms) GetByID(_ context.Context, id uint64) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok || r.IsDeleted {
		return nil, fmt.Errorf("room %d: %w", id, model.ErrRoomNotFound)
	}
	return &model.Room{ID: r.ID, Rows: r.Rows, Cols: r.Cols, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}, nil
}

func (m *memRooms) ListActive(context.Context) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Room{}
	for _, r := range m.rooms {
		if !r.IsDeleted {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b model.Room) int { return int(a.ID) - int(b.ID) })
	return out, nil
}

func (m *memRooms) SoftDelete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok || r.IsDeleted {
		return fmt.Errorf("room %d: %w", id, model.ErrRoomNotFound)
	}
	r.IsDeleted = true
	m.rooms[id] = r
	return nil
}

type memSeats struct {
	mu        sync.Mutex
	byRoom    map[uint64]map[model.Coord]model.Seat
	next      uint64
	createErr error
	lists     int // ListByRoom calls
}

func newMemSeats() *memSeats { return &memSeats{byRoom: map[uint64]map[model.Coord]model.Seat{}} }

func (m *memSeats) sorted(roomID uint64) []model.Seat {
	out := []model.Seat{}
	for _, s := range m.byRoom[roomID] {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b model.Seat) int { return a.Coord().Compare(b.Coord()) })
	return out
}

func (m *memSeats) ListByRoom(_ context.Context, roomID uint64) ([]model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	return m.sorted(roomID), nil
}

func (m *memSeats) GetByIDAndRoom(_ context.Context, roomID, seatID uint64) (*model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byRoom[roomID] {
		if s.ID == seatID {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("seat %d: %w", seatID, model.ErrSeatNotFound)
}

func (m *memSeats) GetByIDs(_ context.Context, roomID uint64, ids []uint64) ([]model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Seat{}
	for _, s := range m.sorted(roomID) {
		if slices.Contains(ids, s.ID) {
			out = append(out, s)
		}
	}
	if len(out) != len(ids) {
		return nil, fmt.Errorf("%d of %d seats: %w", len(out), len(ids), model.ErrSeatNotFound)
	}
	return out, nil
}

func (m *memSeats) CreateMany(_ context.Context, roomID uint64, coords []model.Coord) ([]model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.byRoom[roomID] == nil {
		m.byRoom[roomID] = map[model.Coord]model.Seat{}
	}
	out := make([]model.Seat, 0, len(coords))
	for _, c := range coords {
		s, ok := m.byRoom[roomID][c]
		if !ok {
			m.next++
			s = model.SeatAt(c)
			s.ID, s.RoomID = m.next, roomID
			m.byRoom[roomID][c] = s
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b model.Seat) int { return a.Coord().Compare(b.Coord()) })
	return out, nil
}

func (m *memSeats) DeleteMany(_ context.Context, roomID uint64, ids []uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hit []model.Coord
	for c, s := range m.byRoom[roomID] {
		if slices.Contains(ids, s.ID) {
			hit = append(hit, c)
		}
	}
	if len(hit) != len(ids) {
		return fmt.Errorf("%d of %d seats: %w", len(hit), len(ids), model.ErrSeatNotFound)
	}
	for _, c := range hit {
		delete(m.byRoom[roomID], c)
	}
	return nil
}

// put stores a seat directly, as another instance would.
func (m *memSeats) put(roomID uint64, c model.Coord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byRoom[roomID] == nil {
		m.byRoom[roomID] = map[model.Coord]model.Seat{}
	}
	m.next++
	s := model.SeatAt(c)
	s.ID, s.RoomID = m.next, roomID
	m.byRoom[roomID][c] = s
}

type recorder struct {
	mu     sync.Mutex
	events []queue.SeatEvent
}

func (r *recorder) Publish(_ context.Context, ev queue.SeatEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) all() []queue.SeatEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}
