// Package handler exposes the room service over HTTP.  Handlers parse the
// request, call the service and render the result; every failure goes
// through writeError so the status always follows the error kind.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// RoomService is the part of service.Service the handlers use.
type RoomService interface {
	AddRoom(ctx context.Context, rows, cols int) (*model.Room, error)
	RemoveRoom(ctx context.Context, roomID uint64) error
	ListRooms(ctx context.Context) ([]model.Room, error)
	GetRoom(ctx context.Context, roomID uint64) (*model.Room, error)
	ListSeats(ctx context.Context, roomID uint64) ([]model.Seat, error)
	GetSeat(ctx context.Context, roomID, seatID uint64) (*model.Seat, error)
	AvailableSeats(ctx context.Context, roomID uint64) ([]model.Coord, error)
	AvailableSeatsAt(ctx context.Context, roomID uint64, minDistance int) ([]model.Coord, error)
	ReserveSeats(ctx context.Context, roomID uint64, coords []model.Coord) ([]model.Seat, error)
	CancelSeats(ctx context.Context, roomID uint64, seatIDs []uint64) ([]model.Seat, error)
	MinDistance() int
}

// RoomHandler serves the /v1/rooms routes.
type RoomHandler struct {
	Svc RoomService
}

// NewRoomHandler panics if svc is nil.
func NewRoomHandler(svc RoomService) *RoomHandler {
	if svc == nil {
		panic("nil service passed to NewRoomHandler")
	}
	return &RoomHandler{Svc: svc}
}

// CreateRoomRequest is the body of POST /v1/rooms.
type CreateRoomRequest struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// ReserveRequest is the body of POST /v1/rooms/:id/seats/reserve.
type ReserveRequest struct {
	Seats []model.Coord `json:"seats"`
}

// CancelRequest is the body of DELETE /v1/rooms/:id/seats/cancel.
type CancelRequest struct {
	SeatIDs []uint64 `json:"seat_ids"`
}

// AvailableResponse lists the cells that can be reserved.
type AvailableResponse struct {
	RoomID      uint64        `json:"room_id"`
	MinDistance int           `json:"min_distance"`
	Count       int           `json:"count"`
	Items       []model.Coord `json:"items"`
}

func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// ListRooms handles GET /v1/rooms.
func (h *RoomHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Svc.ListRooms(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// GetRoom handles GET /v1/rooms/:id.
func (h *RoomHandler) GetRoom(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	room, err := h.Svc.GetRoom(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// CreateRoom handles POST /v1/rooms.
func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	room, err := h.Svc.AddRoom(c.Request().Context(), req.Rows, req.Cols)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// DeleteRoom handles DELETE /v1/rooms/:id.
func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	if err := h.Svc.RemoveRoom(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSeats handles GET /v1/rooms/:id/seats.
func (h *RoomHandler) ListSeats(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	seats, err := h.Svc.ListSeats(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}

// GetSeat handles GET /v1/rooms/:id/seats/:seat_id.
func (h *RoomHandler) GetSeat(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	seatID, ok := parseID(c, "seat_id")
	if !ok {
		return badRequest(c, "invalid seat id")
	}
	seat, err := h.Svc.GetSeat(c.Request().Context(), id, seatID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, seat)
}

// AvailableSeats handles GET /v1/rooms/:id/seats/available.  The optional
// min_distance query parameter overrides the configured spacing.
func (h *RoomHandler) AvailableSeats(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	d := h.Svc.MinDistance()
	if raw := c.QueryParam("min_distance"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "min_distance must be an integer")
		}
		d = n
	}
	cells, err := h.Svc.AvailableSeatsAt(c.Request().Context(), id, d)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AvailableResponse{RoomID: id, MinDistance: d, Count: len(cells), Items: cells})
}

// ReserveSeats handles POST /v1/rooms/:id/seats/reserve.
func (h *RoomHandler) ReserveSeats(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	var req ReserveRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	seats, err := h.Svc.ReserveSeats(c.Request().Context(), id, req.Seats)
	if err != nil {
		if isKind(err, model.KindLockUnavailable) {
			c.Response().Header().Set("Retry-After", "1")
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"items": seats})
}

// CancelSeats handles DELETE /v1/rooms/:id/seats/cancel.
func (h *RoomHandler) CancelSeats(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	var req CancelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	seats, err := h.Svc.CancelSeats(c.Request().Context(), id, req.SeatIDs)
	if err != nil {
		if isKind(err, model.KindLockUnavailable) {
			c.Response().Header().Set("Retry-After", "1")
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}
