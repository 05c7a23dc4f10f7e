package repository // repository holds data access logic for rooms and seats

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors is used to detect sql.ErrNoRows

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// RoomRepo provides methods to create, read and soft-delete rooms.
type RoomRepo struct {
	db *sql.DB // db is the underlying connection pool
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// DB exposes the underlying handle for health checks.
func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomColumns = "id, `rows`, cols, is_deleted, created_at, updated_at"

// Create inserts a new room.  On success the room's ID is set and the row
// is read back so is_deleted and the timestamps carry the stored values.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const qInsert = "INSERT INTO room (`rows`, cols) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, room.Rows, room.Cols)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	const qSelect = "SELECT " + roomColumns + " FROM room WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.Rows, &room.Cols, &room.IsDeleted, &room.CreatedAt, &room.UpdatedAt)
}

// GetByID retrieves an active room.  ErrRoomNotFound is returned when the
// room does not exist or has been soft-deleted.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = "SELECT " + roomColumns + " FROM room WHERE id = ? AND is_deleted = 0"
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&room.ID, &room.Rows, &room.Cols, &room.IsDeleted, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ListActive returns every room that is not soft-deleted, ordered by id.
func (r *RoomRepo) ListActive(ctx context.Context) ([]model.Room, error) {
	const q = "SELECT " + roomColumns + " FROM room WHERE is_deleted = 0 ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Room{}
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Rows, &room.Cols, &room.IsDeleted, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SoftDelete marks a room and all of its seats deleted in one
// transaction.  ErrRoomNotFound is returned when no active room matches.
func (r *RoomRepo) SoftDelete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE room SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrRoomNotFound
		}
		_, err = tx.ExecContext(ctx, `UPDATE seat SET is_deleted = 1 WHERE room_id = ? AND is_deleted = 0`, id)
		return err
	})
}
