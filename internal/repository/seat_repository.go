package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors is used to detect sql.ErrNoRows
	"fmt"
	"strings"

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// SeatRepo provides methods to work with the seats of a room.  A seat row
// exists only while the seat is reserved; cancelling deletes the row.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = "id, room_id, pos_x, pos_y, is_deleted, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanSeat(s scanner) (model.Seat, error) {
	var seat model.Seat
	err := s.Scan(&seat.ID, &seat.RoomID, &seat.PosX, &seat.PosY, &seat.IsDeleted, &seat.CreatedAt, &seat.UpdatedAt)
	return seat, err
}

func collectSeats(rows *sql.Rows) ([]model.Seat, error) {
	defer rows.Close()
	out := []model.Seat{}
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByRoom returns the occupied seats of a room ordered by pos_x then
// pos_y, the same order the grid model keeps.
func (r *SeatRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	const q = "SELECT " + seatColumns + ` FROM seat
	           WHERE room_id = ? AND is_deleted = 0
	           ORDER BY pos_x, pos_y`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	return collectSeats(rows)
}

// GetByIDAndRoom retrieves one seat, scoped to its room.
func (r *SeatRepo) GetByIDAndRoom(ctx context.Context, roomID, seatID uint64) (*model.Seat, error) {
	const q = "SELECT " + seatColumns + " FROM seat WHERE id = ? AND room_id = ? AND is_deleted = 0"
	seat, err := scanSeat(r.db.QueryRowContext(ctx, q, seatID, roomID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &seat, nil
}

// GetByIDs resolves a batch of seat ids inside one room.  ErrSeatNotFound
// is returned unless every distinct id matches a seat of that room.
func (r *SeatRepo) GetByIDs(ctx context.Context, roomID uint64, ids []uint64) ([]model.Seat, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []model.Seat{}, nil
	}
	q := "SELECT " + seatColumns + " FROM seat WHERE room_id = ? AND is_deleted = 0 AND id IN (" +
		placeholders(len(ids)) + ") ORDER BY pos_x, pos_y"
	args := make([]any, 0, len(ids)+1)
	args = append(args, roomID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	seats, err := collectSeats(rows)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(ids) {
		return nil, fmt.Errorf("%w: %d of %d seats found in room %d", ErrSeatNotFound, len(seats), len(ids), roomID)
	}
	return seats, nil
}

// CreateMany inserts a seat per coordinate and returns the committed rows
// ordered by position.  The insert is idempotent on (room_id, pos_x,
// pos_y): a row that already exists is left untouched and returned as is.
// Callers that need exclusivity must check occupancy under a seat lock
// first.
func (r *SeatRepo) CreateMany(ctx context.Context, roomID uint64, coords []model.Coord) ([]model.Seat, error) {
	if len(coords) == 0 {
		return []model.Seat{}, nil
	}
	values := make([]string, len(coords))
	args := make([]any, 0, len(coords)*3)
	for i, c := range coords {
		values[i] = "(?, ?, ?)"
		args = append(args, roomID, c.X, c.Y)
	}
	insert := "INSERT INTO seat (room_id, pos_x, pos_y) VALUES " + strings.Join(values, ", ") +
		" ON DUPLICATE KEY UPDATE id = id"

	match := make([]string, len(coords))
	selArgs := make([]any, 0, len(coords)*2+1)
	selArgs = append(selArgs, roomID)
	for i, c := range coords {
		match[i] = "(?, ?)"
		selArgs = append(selArgs, c.X, c.Y)
	}
	sel := "SELECT " + seatColumns + " FROM seat WHERE room_id = ? AND (pos_x, pos_y) IN (" +
		strings.Join(match, ", ") + ") ORDER BY pos_x, pos_y"

	var out []model.Seat
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return err
		}
		rows, err := tx.QueryContext(ctx, sel, selArgs...)
		if err != nil {
			return err
		}
		out, err = collectSeats(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMany removes the given seats of a room in one transaction.  The
// rows are locked first; if any id does not match, nothing is deleted and
// ErrSeatNotFound is returned.
func (r *SeatRepo) DeleteMany(ctx context.Context, roomID uint64, ids []uint64) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	in := placeholders(len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, roomID)
	for _, id := range ids {
		args = append(args, id)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT id FROM seat WHERE room_id = ? AND id IN ("+in+") FOR UPDATE", args...)
		if err != nil {
			return err
		}
		found := 0
		for rows.Next() {
			var id uint64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			found++
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
		if found != len(ids) {
			return fmt.Errorf("%w: %d of %d seats found in room %d", ErrSeatNotFound, found, len(ids), roomID)
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM seat WHERE room_id = ? AND id IN ("+in+")", args...)
		return err
	})
}

// uniqueIDs drops repeated ids while keeping first-occurrence order.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
