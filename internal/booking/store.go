package booking

import (
	"context"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// Store is the storage port used by Service.  Lookups that find nothing
// return ErrNotFound or ErrVenueNotFound.
type Store interface {
	GetRequest(ctx context.Context, id string) (*model.BookingRequest, error)
	ListRequestsByEmail(ctx context.Context, email string) ([]model.BookingRequest, error)
	ListRequestsByStatus(ctx context.Context, status model.Status) ([]model.BookingRequest, error)

	GetVenue(ctx context.Context, id string) (*model.Venue, error)
	ListVenues(ctx context.Context, visibleOnly bool) ([]model.Venue, error)
	CreateVenue(ctx context.Context, v *model.Venue) error
	UpdateVenue(ctx context.Context, v *model.Venue) error

	BookingsByVenues(ctx context.Context, venueIDs []string, date int64) ([]model.VenueBooking, error)
	BookingsByVenue(ctx context.Context, venueID string) ([]model.VenueBooking, error)

	// InTx runs fn in one transaction, committing when fn returns nil and
	// rolling back otherwise.
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the transactional part of the storage port.  Every transition
// runs inside exactly one Tx.
type Tx interface {
	// LockRequest loads a request and locks it until the transaction ends.
	LockRequest(ctx context.Context, id string) (*model.BookingRequest, error)
	// BookingsForUpdate loads and locks the rows of the venues on date.
	BookingsForUpdate(ctx context.Context, venueIDs []string, date int64) ([]model.VenueBooking, error)
	// PendingRequests loads PENDING requests of the venues on date,
	// excluding excludeID.
	PendingRequests(ctx context.Context, venueIDs []string, date int64, excludeID string) ([]model.BookingRequest, error)
	CreateRequest(ctx context.Context, r *model.BookingRequest) error
	// SetStatus moves a request from one status to another and stores the
	// reason.  It returns ErrStaleStatus when the row is not in from.
	SetStatus(ctx context.Context, id string, from, to model.Status, reason string) error
	// CreateRows materializes one row per slot of r, all or nothing.  A
	// unique key violation is reported as ErrSlotTaken.
	CreateRows(ctx context.Context, r *model.BookingRequest) error
	// DeleteRows removes the rows materialized for r and returns how many
	// were deleted.
	DeleteRows(ctx context.Context, r *model.BookingRequest) (int, error)
}
