package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// VenueRepo provides CRUD operations for venues.  Hierarchy links are
// stored as a nullable parent_venue_id.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = `id, name, description, capacity, opening_hours, is_child_venue,
	parent_venue_id, visible, is_instant_book, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(sc rowScanner) (*model.Venue, error) {
	var (
		v      model.Venue
		desc   sql.NullString
		parent sql.NullString
	)
	if err := sc.Scan(&v.ID, &v.Name, &desc, &v.Capacity, &v.OpeningHours, &v.IsChildVenue,
		&parent, &v.Visible, &v.IsInstantBook, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.Description = desc.String
	v.ParentVenueID = parent.String
	return &v, nil
}

// GetByID fetches one venue.  It returns ErrVenueNotFound if no row exists.
func (r *VenueRepo) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return v, nil
}

// List returns venues ordered by name.  visibleOnly hides venues that
// residents cannot book.
func (r *VenueRepo) List(ctx context.Context, visibleOnly bool) ([]model.Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues`
	if visibleOnly {
		q += ` WHERE visible = 1`
	}
	q += ` ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a venue.  The caller assigns the ID and timestamps.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (id, name, description, capacity, opening_hours, is_child_venue,
	           parent_venue_id, visible, is_instant_book, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, v.ID, v.Name, v.Description, v.Capacity, v.OpeningHours,
		v.IsChildVenue, nullString(v.ParentVenueID), v.Visible, v.IsInstantBook, v.CreatedAt, v.UpdatedAt)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// Update overwrites the editable columns of a venue.  It returns
// ErrVenueNotFound when no row has the ID.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues
	           SET name = ?, description = ?, capacity = ?, opening_hours = ?, is_child_venue = ?,
	               parent_venue_id = ?, visible = ?, is_instant_book = ?, updated_at = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Description, v.Capacity, v.OpeningHours, v.IsChildVenue,
		nullString(v.ParentVenueID), v.Visible, v.IsInstantBook, v.UpdatedAt, v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
