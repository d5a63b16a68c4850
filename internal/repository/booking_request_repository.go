package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/timeslot"
)

// BookingRequestRepo persists booking requests.  time_slots is stored as
// a comma separated list of slot indices.
type BookingRequestRepo struct {
	db *sql.DB
}

// NewBookingRequestRepo returns a BookingRequestRepo bound to db.
func NewBookingRequestRepo(db *sql.DB) *BookingRequestRepo { return &BookingRequestRepo{db: db} }

const requestColumns = `id, email, venue_id, date, time_slots, cca, purpose, status, editable,
	reason, created_at, updated_at`

func scanRequest(sc rowScanner) (*model.BookingRequest, error) {
	var (
		r      model.BookingRequest
		slots  string
		status string
		reason sql.NullString
	)
	if err := sc.Scan(&r.ID, &r.Email, &r.VenueID, &r.Date, &slots, &r.CCA, &r.Purpose, &status,
		&r.Editable, &reason, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	st, ok := model.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("booking request %s: unknown status %q", r.ID, status)
	}
	list, err := timeslot.DecodeList(slots)
	if err != nil {
		return nil, fmt.Errorf("booking request %s: %w", r.ID, err)
	}
	r.Status = st
	r.TimeSlots = list
	r.Reason = reason.String
	return &r, nil
}

func (r *BookingRequestRepo) getOne(ctx context.Context, q queryer, query string, args ...any) (*model.BookingRequest, error) {
	req, err := scanRequest(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *BookingRequestRepo) list(ctx context.Context, q queryer, query string, args ...any) ([]model.BookingRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BookingRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns one request or ErrRequestNotFound.
func (r *BookingRequestRepo) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	return r.getOne(ctx, r.db, `SELECT `+requestColumns+` FROM booking_requests WHERE id = ?`, id)
}

// ListByEmail returns the requests of one requester, newest first.
func (r *BookingRequestRepo) ListByEmail(ctx context.Context, email string) ([]model.BookingRequest, error) {
	return r.list(ctx, r.db, `SELECT `+requestColumns+` FROM booking_requests WHERE email = ? ORDER BY created_at DESC, id`, email)
}

// ListByStatus returns every request in status ordered by booked day.
func (r *BookingRequestRepo) ListByStatus(ctx context.Context, status model.Status) ([]model.BookingRequest, error) {
	return r.list(ctx, r.db, `SELECT `+requestColumns+` FROM booking_requests WHERE status = ? ORDER BY date, created_at, id`, string(status))
}

// GetForUpdateTx loads a request and locks its row until tx ends.
func (r *BookingRequestRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.BookingRequest, error) {
	return r.getOne(ctx, tx, `SELECT `+requestColumns+` FROM booking_requests WHERE id = ? FOR UPDATE`, id)
}

// PendingByVenuesDateTx locks and returns the PENDING requests of the
// venues on date, skipping excludeID.
func (r *BookingRequestRepo) PendingByVenuesDateTx(ctx context.Context, tx *sql.Tx, venueIDs []string, date int64, excludeID string) ([]model.BookingRequest, error) {
	if len(venueIDs) == 0 {
		return []model.BookingRequest{}, nil
	}
	q := `SELECT ` + requestColumns + ` FROM booking_requests
	      WHERE venue_id IN (` + placeholders(len(venueIDs)) + `) AND date = ? AND status = ? AND id <> ?
	      ORDER BY created_at, id FOR UPDATE`
	args := make([]any, 0, len(venueIDs)+3)
	for _, id := range venueIDs {
		args = append(args, id)
	}
	args = append(args, date, string(model.StatusPending), excludeID)
	return r.list(ctx, tx, q, args...)
}

// CreateTx inserts a request within tx.
func (r *BookingRequestRepo) CreateTx(ctx context.Context, tx *sql.Tx, req *model.BookingRequest) error {
	const q = `INSERT INTO booking_requests (id, email, venue_id, date, time_slots, cca, purpose, status,
	           editable, reason, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, req.ID, req.Email, req.VenueID, req.Date, timeslot.EncodeList(req.TimeSlots),
		req.CCA, req.Purpose, string(req.Status), req.Editable, nullString(req.Reason), req.CreatedAt, req.UpdatedAt)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// SetStatusTx moves a request from one status to another, clearing the
// editable flag.  The WHERE clause on the current status makes the
// update a compare-and-set; ErrStaleStatus is returned when it matches
// nothing.
func (r *BookingRequestRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id string, from, to model.Status, reason string) error {
	const q = `UPDATE booking_requests
	           SET status = ?, reason = ?, editable = 0, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, string(to), nullString(reason), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleStatus
	}
	return nil
}
