package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-seat-reservation/internal/config"
	"github.com/iliyamo/room-seat-reservation/internal/handler"
	"github.com/iliyamo/room-seat-reservation/internal/middleware"
)

// RegisterReservations registers the seat reservation endpoints under /v1.
// Both OWNER and CUSTOMER tokens are accepted.  The token bucket runs after
// authentication so buckets can be keyed by user; rdb may be nil, in which
// case requests are not limited.
func RegisterReservations(e *echo.Echo, h *handler.RoomHandler, jwtSecret string, rl config.RateLimitConfig, rdb *redis.Client) {
	mw := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner, middleware.RoleCustomer),
		middleware.NewTokenBucket(rl, rdb),
	}

	e.POST("/v1/rooms/:id/seats/reserve", h.ReserveSeats, mw...)
	e.DELETE("/v1/rooms/:id/seats/cancel", h.CancelSeats, mw...)
}
