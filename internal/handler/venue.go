package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/utils"
)

// VenueHandler serves venue listing, availability and admin venue
// management.
type VenueHandler struct {
	Svc *booking.Service
	// OnChange runs after a venue is created or edited, e.g. to drop
	// cached venue lists.  It may be nil.
	OnChange func(ctx context.Context) error
}

// NewVenueHandler constructs a VenueHandler and panics on a nil service.
func NewVenueHandler(svc *booking.Service, onChange func(ctx context.Context) error) *VenueHandler {
	if svc == nil {
		panic("nil service passed to NewVenueHandler")
	}
	return &VenueHandler{Svc: svc, OnChange: onChange}
}

// List handles GET /v1/venues and returns bookable venues.
func (h *VenueHandler) List(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		venues, err := h.Svc.ListVenues(c.Request().Context(), s, false)
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, venues)
	})(c)
}

// AdminList handles GET /v1/admin/venues and includes hidden venues.
func (h *VenueHandler) AdminList(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		venues, err := h.Svc.ListVenues(c.Request().Context(), s, true)
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, venues)
	})(c)
}

type slotView struct {
	Slot   int    `json:"slot"`
	Timing string `json:"timing"`
}

// Slots handles GET /v1/venues/:id/slots?date=YYYY-MM-DD and lists the
// slots already taken on the venue or a linked venue.
func (h *VenueHandler) Slots(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		day := c.QueryParam("date")
		slots, err := h.Svc.BookedSlots(c.Request().Context(), s, c.Param("id"), day)
		if err != nil {
			return fail(c, err)
		}
		codec := h.Svc.Codec()
		views := make([]slotView, 0, len(slots))
		for _, slot := range slots {
			timing, err := codec.SlotTiming(slot)
			if err != nil {
				continue
			}
			views = append(views, slotView{Slot: slot, Timing: timing})
		}
		return respond(c, http.StatusOK, echo.Map{
			"venue":       c.Param("id"),
			"date":        day,
			"slotMinutes": codec.SlotMinutes(),
			"booked":      views,
		})
	})(c)
}

// Bookings handles GET /v1/admin/venues/:id/bookings.
func (h *VenueHandler) Bookings(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		ranges, err := h.Svc.VenueBookings(c.Request().Context(), s, c.Param("id"))
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, ranges)
	})(c)
}

// Create handles POST /v1/admin/venues.
func (h *VenueHandler) Create(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		var in booking.VenueInput
		if err := c.Bind(&in); err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid request body")
		}
		v, err := h.Svc.CreateVenue(c.Request().Context(), s, in)
		if err != nil {
			return fail(c, err)
		}
		h.changed(c)
		return respond(c, http.StatusCreated, v)
	})(c)
}

// Update handles PUT /v1/admin/venues/:id.
func (h *VenueHandler) Update(c echo.Context) error {
	return withSession(func(c echo.Context, s model.Session) error {
		var in booking.VenueInput
		if err := c.Bind(&in); err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid request body")
		}
		v, err := h.Svc.EditVenue(c.Request().Context(), s, c.Param("id"), in)
		if err != nil {
			return fail(c, err)
		}
		h.changed(c)
		return respond(c, http.StatusOK, v)
	})(c)
}

func (h *VenueHandler) changed(c echo.Context) {
	if h.OnChange == nil {
		return
	}
	if err := h.OnChange(c.Request().Context()); err != nil {
		utils.LogCtx(c.Request().Context(), "venue", "invalidate-cache", err.Error())
	}
}
