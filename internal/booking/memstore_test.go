package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// memStore is an in-memory Store whose transactions work on copies and
// only publish them on success, so a failed transition leaves no trace.
type memStore struct {
	mu       sync.Mutex
	venues   map[string]model.Venue
	requests map[string]model.BookingRequest
	rows     []model.VenueBooking

	listErr       error // returned by ListVenues
	createRowsErr error // returned by CreateRows instead of inserting
	rowSeq        int
	createdVenues int
	updatedVenues int
}

func newMemStore(venues ...model.Venue) *memStore {
	m := &memStore{venues: map[string]model.Venue{}, requests: map[string]model.BookingRequest{}}
	for _, v := range venues {
		m.venues[v.ID] = v
	}
	return m
}

func (m *memStore) put(r model.BookingRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.ID] = r
}

func (m *memStore) request(id string) model.BookingRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id]
}

func (m *memStore) rowsFor(requestID string) []model.VenueBooking {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.VenueBooking
	for _, r := range m.rows {
		if requestID == "" || r.BookingRequestID == requestID {
			out = append(out, r)
		}
	}
	return out
}

func (m *memStore) GetRequest(_ context.Context, id string) (*model.BookingRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *memStore) ListRequestsByEmail(_ context.Context, email string) ([]model.BookingRequest, error) {
	return m.filter(func(r model.BookingRequest) bool { return r.Email == email }), nil
}

func (m *memStore) ListRequestsByStatus(_ context.Context, status model.Status) ([]model.BookingRequest, error) {
	return m.filter(func(r model.BookingRequest) bool { return r.Status == status }), nil
}

func (m *memStore) filter(keep func(model.BookingRequest) bool) []model.BookingRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.BookingRequest{}
	for _, r := range m.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) GetVenue(_ context.Context, id string) (*model.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.venues[id]
	if !ok {
		return nil, ErrVenueNotFound
	}
	return &v, nil
}

func (m *memStore) ListVenues(_ context.Context, visibleOnly bool) ([]model.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []model.Venue{}
	for _, v := range m.venues {
		if !visibleOnly || v.Visible {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateVenue(_ context.Context, v *model.Venue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.venues[v.ID] = *v
	m.createdVenues++
	return nil
}

func (m *memStore) UpdateVenue(_ context.Context, v *model.Venue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.venues[v.ID]; !ok {
		return ErrVenueNotFound
	}
	m.venues[v.ID] = *v
	m.updatedVenues++
	return nil
}

func (m *memStore) BookingsByVenues(_ context.Context, venueIDs []string, date int64) ([]model.VenueBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return selectRows(m.rows, venueIDs, date), nil
}

func (m *memStore) BookingsByVenue(_ context.Context, venueID string) ([]model.VenueBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.VenueBooking
	for _, r := range m.rows {
		if r.VenueID == venueID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) InTx(_ context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memTx{m: m, requests: make(map[string]model.BookingRequest, len(m.requests))}
	for k, v := range m.requests {
		tx.requests[k] = v
	}
	tx.rows = append([]model.VenueBooking(nil), m.rows...)
	if err := fn(tx); err != nil {
		return err
	}
	m.requests = tx.requests
	m.rows = tx.rows
	return nil
}

func selectRows(rows []model.VenueBooking, venueIDs []string, date int64) []model.VenueBooking {
	want := map[string]bool{}
	for _, id := range venueIDs {
		want[id] = true
	}
	var out []model.VenueBooking
	for _, r := range rows {
		if want[r.VenueID] && r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

type memTx struct {
	m        *memStore
	requests map[string]model.BookingRequest
	rows     []model.VenueBooking
}

func (t *memTx) LockRequest(_ context.Context, id string) (*model.BookingRequest, error) {
	r, ok := t.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (t *memTx) BookingsForUpdate(_ context.Context, venueIDs []string, date int64) ([]model.VenueBooking, error) {
	return selectRows(t.rows, venueIDs, date), nil
}

func (t *memTx) PendingRequests(_ context.Context, venueIDs []string, date int64, excludeID string) ([]model.BookingRequest, error) {
	want := map[string]bool{}
	for _, id := range venueIDs {
		want[id] = true
	}
	var out []model.BookingRequest
	for _, r := range t.requests {
		if r.ID != excludeID && r.Status == model.StatusPending && r.Date == date && want[r.VenueID] {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) CreateRequest(_ context.Context, r *model.BookingRequest) error {
	if _, ok := t.requests[r.ID]; ok {
		return errors.New("duplicate request id")
	}
	t.requests[r.ID] = *r
	return nil
}

func (t *memTx) SetStatus(_ context.Context, id string, from, to model.Status, reason string) error {
	r, ok := t.requests[id]
	if !ok || r.Status != from {
		return ErrStaleStatus
	}
	r.Status = to
	r.Reason = reason
	r.Editable = false
	t.requests[id] = r
	return nil
}

func (t *memTx) CreateRows(_ context.Context, r *model.BookingRequest) error {
	if t.m.createRowsErr != nil {
		return t.m.createRowsErr
	}
	for _, s := range r.TimeSlots {
		for _, row := range t.rows {
			if row.VenueID == r.VenueID && row.Date == r.Date && row.Slot == s {
				return ErrSlotTaken
			}
		}
	}
	for _, s := range r.TimeSlots {
		t.m.rowSeq++
		t.rows = append(t.rows, model.VenueBooking{
			ID:               fmt.Sprintf("row-%d", t.m.rowSeq),
			BookingRequestID: r.ID,
			Email:            r.Email,
			VenueID:          r.VenueID,
			Date:             r.Date,
			Slot:             s,
			CCA:              r.CCA,
			Purpose:          r.Purpose,
		})
	}
	return nil
}

func (t *memTx) DeleteRows(_ context.Context, r *model.BookingRequest) (int, error) {
	slots := map[int]bool{}
	for _, s := range r.TimeSlots {
		slots[s] = true
	}
	kept := t.rows[:0:0]
	deleted := 0
	for _, row := range t.rows {
		if row.BookingRequestID == r.ID && row.VenueID == r.VenueID && row.Date == r.Date && slots[row.Slot] {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	t.rows = kept
	return deleted, nil
}

// recordingNotifier keeps every notification and can be told to fail.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, note Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
	return n.err
}

// flushed waits for svc's background notifications and returns a copy of
// what was sent.
func (n *recordingNotifier) flushed(svc *Service) []Notification {
	svc.Wait()
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}
