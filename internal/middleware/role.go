package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin aborts with 403 unless the session belongs to an ADMIN or
// OWNER.  It must run after JWTAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := SessionFrom(c)
			if !ok || !s.Admin.IsAdmin() {
				return c.JSON(http.StatusForbidden, echo.Map{"status": false, "error": "Unauthorized access", "msg": nil})
			}
			return next(c)
		}
	}
}
