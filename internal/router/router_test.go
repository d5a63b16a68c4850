package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/handler"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/timeslot"
	"github.com/iliyamo/hall-venue-booking/internal/utils"
)

const secret = "router-test-secret"

// venueStore serves venue lists; any other Store call panics.
type venueStore struct {
	booking.Store
}

func (venueStore) ListVenues(context.Context, bool) ([]model.Venue, error) {
	return []model.Venue{{ID: "hall", Name: "Main Hall", Visible: true}}, nil
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	svc := booking.NewService(venueStore{}, nil, timeslot.Default, time.UTC)
	b, v := handler.NewBookingHandler(svc), handler.NewVenueHandler(svc, nil)
	e := echo.New()
	RegisterRoutes(e, nil)
	RegisterBooking(e, b, v, secret, Limits{})
	RegisterAdmin(e, b, v, secret, Limits{})
	return e
}

func bearer(t *testing.T, s model.Session) string {
	t.Helper()
	tok, err := utils.NewSessionToken(secret, s, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + tok.Token
}

func TestRouteAccess(t *testing.T) {
	e := newServer(t)
	user := bearer(t, model.Session{Email: "alice@hall.test", Admin: model.LevelUser})
	owner := bearer(t, model.Session{Email: "owner@hall.test", Admin: model.LevelOwner})

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"health is public", http.MethodGet, "/healthz", "", http.StatusOK},
		{"venues need a session", http.MethodGet, "/v1/venues", "", http.StatusUnauthorized},
		{"resident lists venues", http.MethodGet, "/v1/venues", user, http.StatusOK},
		{"resident kept out of admin", http.MethodGet, "/v1/admin/venues", user, http.StatusForbidden},
		{"resident cannot approve", http.MethodPost, "/v1/admin/booking-requests/r1/approve", user, http.StatusForbidden},
		{"owner lists all venues", http.MethodGet, "/v1/admin/venues", owner, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.auth)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("%s %s = %d, want %d (%s)", tc.method, tc.path, rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestLimitsAreApplied(t *testing.T) {
	svc := booking.NewService(venueStore{}, nil, timeslot.Default, time.UTC)
	b, v := handler.NewBookingHandler(svc), handler.NewVenueHandler(svc, nil)
	hits := 0
	count := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { hits++; return next(c) }
	}
	e := echo.New()
	RegisterBooking(e, b, v, secret, Limits{RateLimit: count, Cache: count})

	req := httptest.NewRequest(http.MethodGet, "/v1/venues", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, model.Session{Email: "alice@hall.test"}))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || hits != 2 {
		t.Fatalf("code=%d hits=%d", rec.Code, hits)
	}
}
