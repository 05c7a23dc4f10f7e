package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used to register routes

	"github.com/iliyamo/room-seat-reservation/internal/handler" // room handlers and health check
)

// RegisterRoutes registers routes that do not require authentication:
// the health check, which pings the database behind db.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterPublic registers the read-only room endpoints.  Guests may list
// rooms and seats and query availability without a token.  The static
// "available" segment takes precedence over :seat_id in Echo's router.
func RegisterPublic(e *echo.Echo, h *handler.RoomHandler) {
	e.GET("/v1/rooms", h.ListRooms)
	e.GET("/v1/rooms/:id", h.GetRoom)
	e.GET("/v1/rooms/:id/seats", h.ListSeats)
	e.GET("/v1/rooms/:id/seats/available", h.AvailableSeats)
	e.GET("/v1/rooms/:id/seats/:seat_id", h.GetSeat)
}
