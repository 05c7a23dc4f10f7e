package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// statusByKind maps error kinds onto HTTP statuses.  Kinds not listed
// become 500.
var statusByKind = map[model.Kind]int{
	model.KindInvalidArgument:    http.StatusBadRequest,
	model.KindOutOfBounds:        http.StatusBadRequest,
	model.KindRoomNotFound:       http.StatusNotFound,
	model.KindSeatNotFound:       http.StatusNotFound,
	model.KindDuplicateSeat:      http.StatusConflict,
	model.KindAlreadyOccupied:    http.StatusConflict,
	model.KindNotAvailable:       http.StatusConflict,
	model.KindLockUnavailable:    http.StatusLocked,
	model.KindPersistenceFailure: http.StatusServiceUnavailable,
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	if s, ok := statusByKind[model.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": message, "code": kind}.  Internal
// and storage errors are logged and their text is not sent to the client.
func writeError(c echo.Context, err error) error {
	kind := model.KindOf(err)
	status := StatusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		msg = http.StatusText(status)
	}
	return c.JSON(status, echo.Map{"error": msg, "code": kind})
}

// badRequest renders a request that could not be parsed.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": model.KindInvalidArgument})
}

// isKind reports whether err is of kind k.
func isKind(err error, k model.Kind) bool {
	return err != nil && model.KindOf(err) == k
}
