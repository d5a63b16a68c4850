package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, which also pings db when
// db is non-nil.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}
