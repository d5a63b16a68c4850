package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// JWTAuth returns an Echo middleware that validates a Bearer session token
// and stores the resulting model.Session in the context.  The secret must
// match the one the session provider signs with.  Handlers read the
// session with SessionFrom.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "invalid claims")
			}
			s, ok := sessionFromClaims(claims)
			if !ok {
				return unauthorized(c, "invalid claims")
			}
			c.Set(sessionKey, s)
			c.Set("user_id", s.Email)
			return next(c)
		}
	}
}

// sessionFromClaims reads the email and admin claims.  The admin level
// may arrive as a JSON number or a numeric string.
func sessionFromClaims(claims jwt.MapClaims) (model.Session, bool) {
	email, _ := claims["email"].(string)
	if email == "" {
		email, _ = claims["sub"].(string)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return model.Session{}, false
	}
	var level int
	switch v := claims["admin"].(type) {
	case float64:
		level = int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return model.Session{}, false
		}
		level = n
	case nil:
	default:
		return model.Session{}, false
	}
	if level < int(model.LevelUser) || level > int(model.LevelOwner) {
		return model.Session{}, false
	}
	return model.Session{Email: email, Admin: model.AdminLevel(level)}, true
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"status": false, "error": msg, "msg": nil})
}
