package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

var (
	roomCols = []string{"id", "rows", "cols", "is_deleted", "created_at", "updated_at"}
	seatCols = []string{"id", "room_id", "pos_x", "pos_y", "is_deleted", "created_at", "updated_at"}
)

func newMock(t *testing.T) (*RoomRepo, *SeatRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewRoomRepo(db), NewSeatRepo(db), mock
}

func TestRoomRepo_Create(t *testing.T) {
	rooms, _, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO room (`rows`, cols) VALUES (?, ?)")).
		WithArgs(5, 10).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM room WHERE id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(roomCols).AddRow(7, 5, 10, false, now, now))

	room, _ := model.NewRoom(5, 10)
	if err := rooms.Create(context.Background(), room); err != nil {
		t.Fatalf("create: %v", err)
	}
	if room.ID != 7 || !room.CreatedAt.Equal(now) {
		t.Fatalf("expected id 7 and stored timestamps, got %+v", room)
	}
}

func TestRoomRepo_GetByID_NotFound(t *testing.T) {
	rooms, _, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM room WHERE id = ? AND is_deleted = 0")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(roomCols))

	_, err := rooms.GetByID(context.Background(), 3)
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if model.KindOf(err) != model.KindRoomNotFound {
		t.Fatalf("expected room_not_found kind, got %s", model.KindOf(err))
	}
}

func TestRoomRepo_ListActive(t *testing.T) {
	rooms, _, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM room WHERE is_deleted = 0 ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(roomCols).
			AddRow(1, 5, 10, false, now, now).
			AddRow(2, 3, 3, false, now, now))

	got, err := rooms.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[1].Rows != 3 {
		t.Fatalf("unexpected rooms: %+v", got)
	}
}

func TestRoomRepo_SoftDelete(t *testing.T) {
	rooms, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE room SET is_deleted = 1")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seat SET is_deleted = 1")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectCommit()

	if err := rooms.SoftDelete(context.Background(), 4); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
}

func TestRoomRepo_SoftDelete_Missing(t *testing.T) {
	rooms, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE room SET is_deleted = 1")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := rooms.SoftDelete(context.Background(), 4); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestSeatRepo_ListByRoom(t *testing.T) {
	_, seats, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM seat")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(10, 1, 0, 1, false, now, now).
			AddRow(11, 1, 4, 9, false, now, now))

	got, err := seats.ListByRoom(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Coord() != (model.Coord{X: 0, Y: 1}) {
		t.Fatalf("unexpected seats: %+v", got)
	}
}

func TestSeatRepo_GetByIDs_RejectsPartialMatch(t *testing.T) {
	_, seats, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("AND id IN (?, ?)")).
		WithArgs(uint64(1), uint64(10), uint64(99)).
		WillReturnRows(sqlmock.NewRows(seatCols).AddRow(10, 1, 0, 1, false, now, now))

	_, err := seats.GetByIDs(context.Background(), 1, []uint64{10, 99, 10})
	if !errors.Is(err, ErrSeatNotFound) {
		t.Fatalf("expected ErrSeatNotFound, got %v", err)
	}
}

func TestSeatRepo_CreateMany(t *testing.T) {
	_, seats, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seat (room_id, pos_x, pos_y) VALUES (?, ?, ?), (?, ?, ?) ON DUPLICATE KEY UPDATE id = id")).
		WithArgs(uint64(1), 0, 6, uint64(1), 4, 0).
		WillReturnResult(sqlmock.NewResult(21, 2))
	mock.ExpectQuery(regexp.QuoteMeta("(pos_x, pos_y) IN ((?, ?), (?, ?))")).
		WithArgs(uint64(1), 0, 6, 4, 0).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(21, 1, 0, 6, false, now, now).
			AddRow(22, 1, 4, 0, false, now, now))
	mock.ExpectCommit()

	got, err := seats.CreateMany(context.Background(), 1, []model.Coord{{X: 0, Y: 6}, {X: 4, Y: 0}})
	if err != nil {
		t.Fatalf("create many: %v", err)
	}
	if len(got) != 2 || got[0].ID != 21 || got[1].ID != 22 {
		t.Fatalf("unexpected seats: %+v", got)
	}
}

func TestSeatRepo_CreateMany_RollsBackOnError(t *testing.T) {
	_, seats, mock := newMock(t)
	boom := errors.New("deadlock found")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seat")).WillReturnError(boom)
	mock.ExpectRollback()

	if _, err := seats.CreateMany(context.Background(), 1, []model.Coord{{X: 0, Y: 0}}); !errors.Is(err, boom) {
		t.Fatalf("expected insert error, got %v", err)
	}
}

func TestSeatRepo_DeleteMany(t *testing.T) {
	_, seats, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM seat WHERE room_id = ? AND id IN (?, ?) FOR UPDATE")).
		WithArgs(uint64(1), uint64(5), uint64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5).AddRow(6))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM seat WHERE room_id = ? AND id IN (?, ?)")).
		WithArgs(uint64(1), uint64(5), uint64(6)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := seats.DeleteMany(context.Background(), 1, []uint64{5, 6}); err != nil {
		t.Fatalf("delete many: %v", err)
	}
}

func TestSeatRepo_DeleteMany_MissingRowRollsBack(t *testing.T) {
	_, seats, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(uint64(1), uint64(5), uint64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectRollback()

	err := seats.DeleteMany(context.Background(), 1, []uint64{5, 6})
	if !errors.Is(err, ErrSeatNotFound) {
		t.Fatalf("expected ErrSeatNotFound, got %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3); got != "?, ?, ?" {
		t.Fatalf("unexpected placeholders %q", got)
	}
	if got := placeholders(0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
