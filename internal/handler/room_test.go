package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// stubService answers from fixed values and records what it was asked.
type stubService struct {
	err         error
	gotCoords   []model.Coord
	gotIDs      []uint64
	gotDistance int
	gotRows     int
	gotCols     int
	removedRoom uint64
}

func (s *stubService) AddRoom(_ context.Context, rows, cols int) (*model.Room, error) {
	s.gotRows, s.gotCols = rows, cols
	if s.err != nil {
		return nil, s.err
	}
	return &model.Room{ID: 1, Rows: rows, Cols: cols}, nil
}

func (s *stubService) RemoveRoom(_ context.Context, id uint64) error {
	s.removedRoom = id
	return s.err
}

func (s *stubService) ListRooms(context.Context) ([]model.Room, error) {
	return []model.Room{{ID: 1, Rows: 5, Cols: 10}}, s.err
}

func (s *stubService) GetRoom(_ context.Context, id uint64) (*model.Room, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Room{ID: id, Rows: 5, Cols: 10}, nil
}

func (s *stubService) ListSeats(context.Context, uint64) ([]model.Seat, error) {
	return []model.Seat{{ID: 3, RoomID: 1, PosX: 0, PosY: 1}}, s.err
}

func (s *stubService) GetSeat(_ context.Context, roomID, seatID uint64) (*model.Seat, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Seat{ID: seatID, RoomID: roomID}, nil
}

func (s *stubService) AvailableSeats(ctx context.Context, roomID uint64) ([]model.Coord, error) {
	return s.AvailableSeatsAt(ctx, roomID, s.MinDistance())
}

func (s *stubService) AvailableSeatsAt(_ context.Context, _ uint64, d int) ([]model.Coord, error) {
	s.gotDistance = d
	return []model.Coord{{X: 4, Y: 0}}, s.err
}

func (s *stubService) ReserveSeats(_ context.Context, roomID uint64, coords []model.Coord) ([]model.Seat, error) {
	s.gotCoords = coords
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.Seat, len(coords))
	for i, c := range coords {
		out[i] = model.Seat{ID: uint64(i + 1), RoomID: roomID, PosX: c.X, PosY: c.Y}
	}
	return out, nil
}

func (s *stubService) CancelSeats(_ context.Context, roomID uint64, ids []uint64) ([]model.Seat, error) {
	s.gotIDs = ids
	if s.err != nil {
		return nil, s.err
	}
	return []model.Seat{{ID: ids[0], RoomID: roomID}}, nil
}

func (s *stubService) MinDistance() int { return 5 }

func serve(t *testing.T, svc RoomService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := NewRoomHandler(svc)
	e.GET("/v1/rooms", h.ListRooms)
	e.POST("/v1/rooms", h.CreateRoom)
	e.GET("/v1/rooms/:id", h.GetRoom)
	e.DELETE("/v1/rooms/:id", h.DeleteRoom)
	e.GET("/v1/rooms/:id/seats", h.ListSeats)
	e.GET("/v1/rooms/:id/seats/available", h.AvailableSeats)
	e.GET("/v1/rooms/:id/seats/:seat_id", h.GetSeat)
	e.POST("/v1/rooms/:id/seats/reserve", h.ReserveSeats)
	e.DELETE("/v1/rooms/:id/seats/cancel", h.CancelSeats)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestReserveSeats_Created(t *testing.T) {
	svc := &stubService{}
	rec := serve(t, svc, http.MethodPost, "/v1/rooms/7/seats/reserve", `{"seats":[{"pos_x":0,"pos_y":6},{"pos_x":4,"pos_y":0}]}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.gotCoords) != 2 || svc.gotCoords[1] != (model.Coord{X: 4, Y: 0}) {
		t.Fatalf("unexpected coords passed to service: %v", svc.gotCoords)
	}
	items := decode(t, rec)["items"].([]any)
	first := items[0].(map[string]any)
	if first["room_id"].(float64) != 7 || first["pos_y"].(float64) != 6 {
		t.Fatalf("unexpected seat %v", first)
	}
}

func TestReserveSeats_ErrorKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   model.Kind
	}{
		{fmt.Errorf("x: %w", model.ErrOutOfBounds), http.StatusBadRequest, model.KindOutOfBounds},
		{fmt.Errorf("x: %w", model.ErrInvalidArgument), http.StatusBadRequest, model.KindInvalidArgument},
		{fmt.Errorf("x: %w", model.ErrRoomNotFound), http.StatusNotFound, model.KindRoomNotFound},
		{fmt.Errorf("%w: %w", model.ErrAlreadyOccupied, model.ErrDuplicateSeat), http.StatusConflict, model.KindAlreadyOccupied},
		{fmt.Errorf("x: %w", model.ErrNotAvailable), http.StatusConflict, model.KindNotAvailable},
		{fmt.Errorf("x: %w", model.ErrLockUnavailable), http.StatusLocked, model.KindLockUnavailable},
		{fmt.Errorf("x: %w", model.ErrPersistenceFailure), http.StatusServiceUnavailable, model.KindPersistenceFailure},
		{errors.New("boom"), http.StatusInternalServerError, model.KindInternal},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			rec := serve(t, &stubService{err: tc.err}, http.MethodPost, "/v1/rooms/1/seats/reserve", `{"seats":[{"pos_x":0,"pos_y":0}]}`)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			body := decode(t, rec)
			if body["code"] != string(tc.code) {
				t.Fatalf("expected code %s, got %v", tc.code, body["code"])
			}
			if tc.status >= 500 && body["error"] != http.StatusText(tc.status) {
				t.Fatalf("expected generic message for %d, got %v", tc.status, body["error"])
			}
			if tc.code == model.KindLockUnavailable && rec.Header().Get("Retry-After") == "" {
				t.Fatalf("expected Retry-After on lock contention")
			}
		})
	}
}

func TestReserveSeats_BadInput(t *testing.T) {
	rec := serve(t, &stubService{}, http.MethodPost, "/v1/rooms/abc/seats/reserve", `{"seats":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
	rec = serve(t, &stubService{}, http.MethodPost, "/v1/rooms/1/seats/reserve", `{"seats":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", rec.Code)
	}
}

func TestCancelSeats(t *testing.T) {
	svc := &stubService{}
	rec := serve(t, svc, http.MethodDelete, "/v1/rooms/2/seats/cancel", `{"seat_ids":[9,10]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.gotIDs) != 2 || svc.gotIDs[0] != 9 {
		t.Fatalf("unexpected ids %v", svc.gotIDs)
	}

	rec = serve(t, &stubService{err: model.ErrSeatNotFound}, http.MethodDelete, "/v1/rooms/2/seats/cancel", `{"seat_ids":[9]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAvailableSeats_DistanceOverride(t *testing.T) {
	svc := &stubService{}
	rec := serve(t, svc, http.MethodGet, "/v1/rooms/3/seats/available", "")
	if rec.Code != http.StatusOK || svc.gotDistance != 5 {
		t.Fatalf("expected default distance 5, got %d (status %d)", svc.gotDistance, rec.Code)
	}
	body := decode(t, rec)
	if body["count"].(float64) != 1 || body["min_distance"].(float64) != 5 {
		t.Fatalf("unexpected body %v", body)
	}

	rec = serve(t, svc, http.MethodGet, "/v1/rooms/3/seats/available?min_distance=0", "")
	if rec.Code != http.StatusOK || svc.gotDistance != 0 {
		t.Fatalf("expected override 0, got %d", svc.gotDistance)
	}
	rec = serve(t, svc, http.MethodGet, "/v1/rooms/3/seats/available?min_distance=far", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad distance, got %d", rec.Code)
	}
}

func TestRoomLifecycleRoutes(t *testing.T) {
	svc := &stubService{}

	rec := serve(t, svc, http.MethodPost, "/v1/rooms", `{"rows":5,"cols":10}`)
	if rec.Code != http.StatusCreated || svc.gotRows != 5 || svc.gotCols != 10 {
		t.Fatalf("unexpected create: %d rows=%d cols=%d", rec.Code, svc.gotRows, svc.gotCols)
	}
	rec = serve(t, svc, http.MethodDelete, "/v1/rooms/4", "")
	if rec.Code != http.StatusNoContent || svc.removedRoom != 4 {
		t.Fatalf("unexpected delete: %d room=%d", rec.Code, svc.removedRoom)
	}
	rec = serve(t, svc, http.MethodGet, "/v1/rooms", "")
	if rec.Code != http.StatusOK || len(decode(t, rec)["items"].([]any)) != 1 {
		t.Fatalf("unexpected list: %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(t, svc, http.MethodGet, "/v1/rooms/4", "")
	if rec.Code != http.StatusOK || decode(t, rec)["id"].(float64) != 4 {
		t.Fatalf("unexpected get: %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(t, svc, http.MethodGet, "/v1/rooms/4/seats/3", "")
	if rec.Code != http.StatusOK || decode(t, rec)["id"].(float64) != 3 {
		t.Fatalf("unexpected seat: %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(t, svc, http.MethodGet, "/v1/rooms/4/seats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected seats: %d", rec.Code)
	}

	rec = serve(t, &stubService{err: model.ErrInvalidArgument}, http.MethodPost, "/v1/rooms", `{"rows":0,"cols":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty grid, got %d", rec.Code)
	}
}

type pingStub struct{ err error }

func (p pingStub) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	e := echo.New()
	for _, tc := range []struct {
		db     Pinger
		status int
	}{
		{nil, http.StatusOK},
		{pingStub{}, http.StatusOK},
		{pingStub{err: errors.New("down")}, http.StatusServiceUnavailable},
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)
		if err := Health(tc.db)(c); err != nil {
			t.Fatalf("health: %v", err)
		}
		if rec.Code != tc.status {
			t.Fatalf("expected %d, got %d", tc.status, rec.Code)
		}
	}
}
