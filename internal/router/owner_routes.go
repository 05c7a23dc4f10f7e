package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-seat-reservation/internal/handler"    // room handlers
	"github.com/iliyamo/room-seat-reservation/internal/middleware" // JWT + role middlewares
)

// RegisterOwner registers OWNER-scoped room management under /v1.
// Both routes require a valid JWT and the OWNER role.  Middleware is
// attached per route: a group would claim every unknown /v1 path.
func RegisterOwner(e *echo.Echo, h *handler.RoomHandler, jwtSecret string) {
	owner := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner),
	}

	e.POST("/v1/rooms", h.CreateRoom, owner...)
	e.DELETE("/v1/rooms/:id", h.DeleteRoom, owner...)
}
