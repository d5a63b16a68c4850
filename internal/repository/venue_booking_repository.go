package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// VenueBookingRepo materializes approved requests into venue_bookings,
// one row per occupied (venue_id, date, slot).  The table's unique key on
// those three columns rejects double booking even if two transactions
// race past the application checks.
type VenueBookingRepo struct {
	db *sql.DB
}

// NewVenueBookingRepo returns a VenueBookingRepo bound to db.
func NewVenueBookingRepo(db *sql.DB) *VenueBookingRepo { return &VenueBookingRepo{db: db} }

const venueBookingColumns = `id, booking_request_id, email, venue_id, date, slot, cca, purpose, created_at`

func (r *VenueBookingRepo) list(ctx context.Context, q queryer, query string, args ...any) ([]model.VenueBooking, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.VenueBooking{}
	for rows.Next() {
		var b model.VenueBooking
		if err := rows.Scan(&b.ID, &b.BookingRequestID, &b.Email, &b.VenueID, &b.Date, &b.Slot,
			&b.CCA, &b.Purpose, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func venuesDateQuery(venueIDs []string, date int64, lock bool) (string, []any) {
	q := `SELECT ` + venueBookingColumns + ` FROM venue_bookings
	      WHERE venue_id IN (` + placeholders(len(venueIDs)) + `) AND date = ?
	      ORDER BY venue_id, slot`
	if lock {
		q += ` FOR UPDATE`
	}
	args := make([]any, 0, len(venueIDs)+1)
	for _, id := range venueIDs {
		args = append(args, id)
	}
	return q, append(args, date)
}

// FindByVenuesDate returns the rows of the venues on date without locking.
func (r *VenueBookingRepo) FindByVenuesDate(ctx context.Context, venueIDs []string, date int64) ([]model.VenueBooking, error) {
	if len(venueIDs) == 0 {
		return []model.VenueBooking{}, nil
	}
	q, args := venuesDateQuery(venueIDs, date, false)
	return r.list(ctx, r.db, q, args...)
}

// FindByVenuesDateTx locks and returns the rows of the venues on date.
// With InnoDB the locking read also takes gap locks on the index range,
// so a concurrent approval for the same venues and day waits here.
func (r *VenueBookingRepo) FindByVenuesDateTx(ctx context.Context, tx *sql.Tx, venueIDs []string, date int64) ([]model.VenueBooking, error) {
	if len(venueIDs) == 0 {
		return []model.VenueBooking{}, nil
	}
	q, args := venuesDateQuery(venueIDs, date, true)
	return r.list(ctx, tx, q, args...)
}

// ListByVenue returns every row of a venue ordered for display.
func (r *VenueBookingRepo) ListByVenue(ctx context.Context, venueID string) ([]model.VenueBooking, error) {
	return r.list(ctx, r.db, `SELECT `+venueBookingColumns+` FROM venue_bookings
	      WHERE venue_id = ? ORDER BY date, booking_request_id, slot`, venueID)
}

// CreateRowsTx inserts all rows in a single statement.  Either every row
// is written or none is; a unique key hit returns ErrDuplicate.
func (r *VenueBookingRepo) CreateRowsTx(ctx context.Context, tx *sql.Tx, rows []model.VenueBooking) error {
	if len(rows) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO venue_bookings (id, booking_request_id, email, venue_id, date, slot, cca, purpose, created_at) VALUES `)
	args := make([]any, 0, len(rows)*9)
	for i, b := range rows {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, b.ID, b.BookingRequestID, b.Email, b.VenueID, b.Date, b.Slot, b.CCA, b.Purpose, b.CreatedAt)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// DeleteRowsTx removes the rows a request materialized for the given
// venue, date and slots and returns how many were deleted.  Rows of other
// requests are never touched.
func (r *VenueBookingRepo) DeleteRowsTx(ctx context.Context, tx *sql.Tx, requestID, venueID string, date int64, slots []int) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	q := `DELETE FROM venue_bookings
	      WHERE booking_request_id = ? AND venue_id = ? AND date = ? AND slot IN (` + placeholders(len(slots)) + `)`
	args := make([]any, 0, len(slots)+3)
	args = append(args, requestID, venueID, date)
	for _, s := range slots {
		args = append(args, s)
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
