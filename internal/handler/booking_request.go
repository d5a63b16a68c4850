package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/middleware"
	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// BookingHandler serves booking request submission, lookup and the admin
// decisions.  Authentication has already run; handlers only read the
// session.
type BookingHandler struct {
	Svc *booking.Service
}

// NewBookingHandler constructs a BookingHandler and panics on a nil service.
func NewBookingHandler(svc *booking.Service) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

// withSession runs fn with the caller's session or answers 401.
func withSession(fn func(echo.Context, model.Session) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, ok := middleware.SessionFrom(c)
		if !ok {
			return respondError(c, http.StatusUnauthorized, "Unauthorized access")
		}
		return fn(c, s)
	}
}

// Submit handles POST /v1/booking-requests.
func (h *BookingHandler) Submit(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		var in booking.SubmitInput
		if err := c.Bind(&in); err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid request body")
		}
		req, err := h.Svc.Submit(c.Request().Context(), s, in)
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusCreated, req)
	})(c)
}

// Mine handles GET /v1/booking-requests/mine.
func (h *BookingHandler) Mine(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		reqs, err := h.Svc.ListMine(c.Request().Context(), s)
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, reqs)
	})(c)
}

// Get handles GET /v1/booking-requests/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		req, err := h.Svc.Get(c.Request().Context(), s, c.Param("id"))
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, req)
	})(c)
}

// Cancel handles POST /v1/booking-requests/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		req, err := h.Svc.Cancel(c.Request().Context(), s, c.Param("id"))
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, req)
	})(c)
}

// List handles GET /v1/admin/booking-requests?status=.
func (h *BookingHandler) List(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		reqs, err := h.Svc.ListByStatus(c.Request().Context(), s, c.QueryParam("status"))
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, reqs)
	})(c)
}

// Approve handles POST /v1/admin/booking-requests/:id/approve.
func (h *BookingHandler) Approve(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		req, err := h.Svc.Approve(c.Request().Context(), s, c.Param("id"))
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, req)
	})(c)
}

// Reject handles POST /v1/admin/booking-requests/:id/reject with a JSON
// body {"reason": "..."}.
func (h *BookingHandler) Reject(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		var body struct {
			Reason string `json:"reason"`
		}
		if err := c.Bind(&body); err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid request body")
		}
		req, err := h.Svc.Reject(c.Request().Context(), s, c.Param("id"), body.Reason)
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, req)
	})(c)
}
