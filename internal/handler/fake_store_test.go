package handler

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// fakeStore is a minimal booking.Store for driving handlers.  Its
// transactions write straight through.
type fakeStore struct {
	mu       sync.Mutex
	venues   map[string]model.Venue
	requests map[string]model.BookingRequest
	rows     []model.VenueBooking
	failList error
}

func newFakeStore(venues ...model.Venue) *fakeStore {
	s := &fakeStore{venues: map[string]model.Venue{}, requests: map[string]model.BookingRequest{}}
	for _, v := range venues {
		s.venues[v.ID] = v
	}
	return s
}

func (s *fakeStore) GetRequest(_ context.Context, id string) (*model.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &r, nil
}

func (s *fakeStore) listRequests(keep func(model.BookingRequest) bool) []model.BookingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.BookingRequest{}
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) ListRequestsByEmail(_ context.Context, email string) ([]model.BookingRequest, error) {
	return s.listRequests(func(r model.BookingRequest) bool { return r.Email == email }), nil
}

func (s *fakeStore) ListRequestsByStatus(_ context.Context, st model.Status) ([]model.BookingRequest, error) {
	return s.listRequests(func(r model.BookingRequest) bool { return r.Status == st }), nil
}

func (s *fakeStore) GetVenue(_ context.Context, id string) (*model.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.venues[id]
	if !ok {
		return nil, booking.ErrVenueNotFound
	}
	return &v, nil
}

func (s *fakeStore) ListVenues(_ context.Context, visibleOnly bool) ([]model.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}
	out := []model.Venue{}
	for _, v := range s.venues {
		if !visibleOnly || v.Visible {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) CreateVenue(_ context.Context, v *model.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues[v.ID] = *v
	return nil
}

func (s *fakeStore) UpdateVenue(_ context.Context, v *model.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues[v.ID] = *v
	return nil
}

func (s *fakeStore) BookingsByVenues(_ context.Context, venueIDs []string, date int64) ([]model.VenueBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowsOn(venueIDs, date), nil
}

func (s *fakeStore) rowsOn(venueIDs []string, date int64) []model.VenueBooking {
	var out []model.VenueBooking
	for _, r := range s.rows {
		for _, id := range venueIDs {
			if r.VenueID == id && r.Date == date {
				out = append(out, r)
			}
		}
	}
	return out
}

func (s *fakeStore) BookingsByVenue(_ context.Context, venueID string) ([]model.VenueBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.VenueBooking
	for _, r := range s.rows {
		if r.VenueID == venueID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) InTx(_ context.Context, fn func(booking.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(fakeTx{s})
}

type fakeTx struct{ s *fakeStore }

func (t fakeTx) LockRequest(_ context.Context, id string) (*model.BookingRequest, error) {
	r, ok := t.s.requests[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &r, nil
}

func (t fakeTx) BookingsForUpdate(_ context.Context, venueIDs []string, date int64) ([]model.VenueBooking, error) {
	return t.s.rowsOn(venueIDs, date), nil
}

func (t fakeTx) PendingRequests(context.Context, []string, int64, string) ([]model.BookingRequest, error) {
	return nil, nil
}

func (t fakeTx) CreateRequest(_ context.Context, r *model.BookingRequest) error {
	t.s.requests[r.ID] = *r
	return nil
}

func (t fakeTx) SetStatus(_ context.Context, id string, from, to model.Status, reason string) error {
	r, ok := t.s.requests[id]
	if !ok || r.Status != from {
		return booking.ErrStaleStatus
	}
	r.Status, r.Reason, r.Editable = to, reason, false
	t.s.requests[id] = r
	return nil
}

func (t fakeTx) CreateRows(_ context.Context, r *model.BookingRequest) error {
	for _, slot := range r.TimeSlots {
		t.s.rows = append(t.s.rows, model.VenueBooking{ID: r.ID, BookingRequestID: r.ID, Email: r.Email, VenueID: r.VenueID, Date: r.Date, Slot: slot, CCA: r.CCA, Purpose: r.Purpose})
	}
	return nil
}

func (t fakeTx) DeleteRows(_ context.Context, r *model.BookingRequest) (int, error) {
	kept := t.s.rows[:0]
	n := 0
	for _, row := range t.s.rows {
		if row.BookingRequestID == r.ID {
			n++
			continue
		}
		kept = append(kept, row)
	}
	t.s.rows = kept
	return n, nil
}

var errDatabaseDown = errors.New("database down")
