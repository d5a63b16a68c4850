package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/handler"
	"github.com/iliyamo/hall-venue-booking/internal/middleware"
)

// Limits wraps the middlewares shared by the authenticated groups.  Zero
// values disable the corresponding feature.
type Limits struct {
	RateLimit echo.MiddlewareFunc // applied to every /v1 route
	Cache     echo.MiddlewareFunc // applied to the public venue list
}

func orPass(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}

// RegisterBooking registers the resident-facing endpoints under /v1.
// Every route needs a valid session token.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, v *handler.VenueHandler, jwtSecret string, l Limits) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		orPass(l.RateLimit),
	)
	g.GET("/venues", v.List, orPass(l.Cache))
	g.GET("/venues/:id/slots", v.Slots)

	g.POST("/booking-requests", b.Submit)
	g.GET("/booking-requests/mine", b.Mine)
	g.GET("/booking-requests/:id", b.Get)
	g.POST("/booking-requests/:id/cancel", b.Cancel)
}

// RegisterAdmin registers booking approval and venue management under
// /v1/admin.  Routes require an ADMIN or OWNER session.
func RegisterAdmin(e *echo.Echo, b *handler.BookingHandler, v *handler.VenueHandler, jwtSecret string, l Limits) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireAdmin(),
		orPass(l.RateLimit),
	)
	g.GET("/booking-requests", b.List)
	g.POST("/booking-requests/:id/approve", b.Approve)
	g.POST("/booking-requests/:id/reject", b.Reject)

	g.GET("/venues", v.AdminList)
	g.POST("/venues", v.Create)
	g.PUT("/venues/:id", v.Update)
	g.GET("/venues/:id/bookings", v.Bookings)
}
