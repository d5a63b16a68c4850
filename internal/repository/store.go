package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// Store adapts the MySQL repositories to booking.Store.
type Store struct {
	db       *sql.DB
	Venues   *VenueRepo
	Requests *BookingRequestRepo
	Bookings *VenueBookingRepo
}

// NewStore builds a Store and its repositories on db.
func NewStore(db *sql.DB) *Store {
	if db == nil {
		panic("nil db passed to NewStore")
	}
	return &Store{
		db:       db,
		Venues:   NewVenueRepo(db),
		Requests: NewBookingRequestRepo(db),
		Bookings: NewVenueBookingRepo(db),
	}
}

var (
	_ booking.Store = (*Store)(nil)
	_ booking.Tx    = (*storeTx)(nil)
)

// translate maps repository sentinels onto the booking error taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRequestNotFound):
		return booking.ErrNotFound
	case errors.Is(err, ErrVenueNotFound):
		return booking.ErrVenueNotFound
	case errors.Is(err, ErrDuplicate):
		return booking.ErrSlotTaken
	case errors.Is(err, ErrStaleStatus), isLockConflict(err):
		return booking.ErrStaleStatus
	}
	return err
}

func (s *Store) GetRequest(ctx context.Context, id string) (*model.BookingRequest, error) {
	r, err := s.Requests.GetByID(ctx, id)
	return r, translate(err)
}

func (s *Store) ListRequestsByEmail(ctx context.Context, email string) ([]model.BookingRequest, error) {
	return s.Requests.ListByEmail(ctx, email)
}

func (s *Store) ListRequestsByStatus(ctx context.Context, status model.Status) ([]model.BookingRequest, error) {
	return s.Requests.ListByStatus(ctx, status)
}

func (s *Store) GetVenue(ctx context.Context, id string) (*model.Venue, error) {
	v, err := s.Venues.GetByID(ctx, id)
	return v, translate(err)
}

func (s *Store) ListVenues(ctx context.Context, visibleOnly bool) ([]model.Venue, error) {
	return s.Venues.List(ctx, visibleOnly)
}

func (s *Store) CreateVenue(ctx context.Context, v *model.Venue) error {
	return s.Venues.Create(ctx, v)
}

func (s *Store) UpdateVenue(ctx context.Context, v *model.Venue) error {
	return translate(s.Venues.Update(ctx, v))
}

func (s *Store) BookingsByVenues(ctx context.Context, venueIDs []string, date int64) ([]model.VenueBooking, error) {
	return s.Bookings.FindByVenuesDate(ctx, venueIDs, date)
}

func (s *Store) BookingsByVenue(ctx context.Context, venueID string) ([]model.VenueBooking, error) {
	return s.Bookings.ListByVenue(ctx, venueID)
}

// InTx runs fn inside a database transaction.  The transaction is
// committed when fn returns nil and rolled back otherwise.  A deadlock
// or lock wait timeout, which InnoDB raises when two approvals on a
// parent and its child race over the same gap, comes back as
// booking.ErrStaleStatus so the caller can retry.
func (s *Store) InTx(ctx context.Context, fn func(booking.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(&storeTx{s: s, tx: tx}); err != nil {
		return translate(err)
	}
	return translate(tx.Commit())
}

type storeTx struct {
	s  *Store
	tx *sql.Tx
}

func (t *storeTx) LockRequest(ctx context.Context, id string) (*model.BookingRequest, error) {
	r, err := t.s.Requests.GetForUpdateTx(ctx, t.tx, id)
	return r, translate(err)
}

func (t *storeTx) BookingsForUpdate(ctx context.Context, venueIDs []string, date int64) ([]model.VenueBooking, error) {
	return t.s.Bookings.FindByVenuesDateTx(ctx, t.tx, venueIDs, date)
}

func (t *storeTx) PendingRequests(ctx context.Context, venueIDs []string, date int64, excludeID string) ([]model.BookingRequest, error) {
	return t.s.Requests.PendingByVenuesDateTx(ctx, t.tx, venueIDs, date, excludeID)
}

func (t *storeTx) CreateRequest(ctx context.Context, r *model.BookingRequest) error {
	return t.s.Requests.CreateTx(ctx, t.tx, r)
}

func (t *storeTx) SetStatus(ctx context.Context, id string, from, to model.Status, reason string) error {
	return translate(t.s.Requests.SetStatusTx(ctx, t.tx, id, from, to, reason))
}

func (t *storeTx) CreateRows(ctx context.Context, r *model.BookingRequest) error {
	now := time.Now().UTC()
	rows := make([]model.VenueBooking, len(r.TimeSlots))
	for i, slot := range r.TimeSlots {
		rows[i] = model.VenueBooking{
			ID:               uuid.NewString(),
			BookingRequestID: r.ID,
			Email:            r.Email,
			VenueID:          r.VenueID,
			Date:             r.Date,
			Slot:             slot,
			CCA:              r.CCA,
			Purpose:          r.Purpose,
			CreatedAt:        now,
		}
	}
	return translate(t.s.Bookings.CreateRowsTx(ctx, t.tx, rows))
}

func (t *storeTx) DeleteRows(ctx context.Context, r *model.BookingRequest) (int, error) {
	return t.s.Bookings.DeleteRowsTx(ctx, t.tx, r.ID, r.VenueID, r.Date, r.TimeSlots)
}
