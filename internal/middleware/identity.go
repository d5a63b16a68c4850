package middleware

// identity.go holds the session lookups shared by middleware and handlers.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

const sessionKey = "session"

// SessionFrom returns the session JWTAuth stored in the context.
func SessionFrom(c echo.Context) (model.Session, bool) {
	s, ok := c.Get(sessionKey).(model.Session)
	return s, ok && s.Email != ""
}

// SetSession stores s in the context as JWTAuth would.
func SetSession(c echo.Context, s model.Session) {
	c.Set(sessionKey, s)
	c.Set("user_id", s.Email)
}

// userID returns the session email, or "guest" when unauthenticated.
func userID(c echo.Context) string {
	if s, ok := SessionFrom(c); ok {
		return s.Email
	}
	return "guest"
}
