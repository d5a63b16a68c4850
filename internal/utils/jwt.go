package utils // package utils provides helper functions for session tokens, time and logging

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// SessionToken is a signed session JWT along with its expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken signs an HS256 JWT carrying the session's email and
// admin level.  Sessions are normally issued by the portal's login
// service; this is used by the dev token command and tests.
func NewSessionToken(secret string, s model.Session, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   s.Email,
		"email": s.Email,
		"admin": int(s.Admin),
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
