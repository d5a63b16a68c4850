package handler // handler holds the HTTP handlers of the booking API

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
)

// envelope is the body of every booking and venue response.  Error is
// null on success.
type envelope struct {
	Status bool    `json:"status"`
	Error  *string `json:"error"`
	Msg    any     `json:"msg"`
}

func respond(c echo.Context, code int, msg any) error {
	return c.JSON(code, envelope{Status: true, Msg: msg})
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Status: false, Error: &message})
}

// statusFor maps the booking error taxonomy onto HTTP status codes.
// Anything unrecognised is a 500 with the generic storage message.
func statusFor(err error) (int, string) {
	switch {
	case booking.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, booking.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, booking.ErrVenueNotFound):
		return http.StatusNotFound, err.Error()
	case booking.IsStateConflict(err), booking.IsConflict(err):
		return http.StatusConflict, err.Error()
	case errors.Is(err, booking.ErrStaleStatus):
		return http.StatusConflict, "Request was updated by someone else, please retry"
	}
	return http.StatusInternalServerError, (&booking.StorageError{}).Error()
}

func fail(c echo.Context, err error) error {
	code, msg := statusFor(err)
	if code == http.StatusConflict {
		var ce *booking.ConflictError
		if errors.As(err, &ce) && len(ce.Slots) > 0 {
			return c.JSON(code, envelope{Status: false, Error: &msg, Msg: echo.Map{"timeSlots": ce.Slots}})
		}
	}
	return respondError(c, code, msg)
}
