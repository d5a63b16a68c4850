package model

import "time"

// Status is the lifecycle state of a booking request.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps the stored or user supplied string onto a Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// PersonalCCA marks a booking made by a resident for themselves rather
// than on behalf of a CCA.
const PersonalCCA = "PERSONAL"

// BookingRequest is a resident's request to use a venue on a date over
// a contiguous range of slots.  It is created PENDING and leaves that
// state exactly once; only an admin can move it from APPROVED to
// REJECTED afterwards.
//
// Fields:
//  ID        – primary key identifier (UUID).
//  Email     – requester email; the requester owns the request.
//  VenueID   – requested venue.
//  Date      – Unix seconds of local midnight of the booked day.
//  TimeSlots – ascending, contiguous slot indices.
//  CCA       – CCA on whose behalf the booking is made, or PERSONAL.
//  Purpose   – free text describing the booking.
//  Status    – lifecycle state.
//  Editable  – whether the requester may still ask for changes.
//  Reason    – rejection reason shown to the requester.
type BookingRequest struct {
	ID        string    `json:"id"`         // booking_requests.id
	Email     string    `json:"email"`      // booking_requests.email
	VenueID   string    `json:"venue"`      // booking_requests.venue_id
	Date      int64     `json:"date"`       // booking_requests.date
	TimeSlots []int     `json:"timeSlots"`  // booking_requests.time_slots (comma separated)
	CCA       string    `json:"cca"`        // booking_requests.cca
	Purpose   string    `json:"purpose"`    // booking_requests.purpose
	Status    Status    `json:"status"`     // booking_requests.status
	Editable  bool      `json:"editable"`   // booking_requests.editable
	Reason    string    `json:"reason"`     // booking_requests.reason
	CreatedAt time.Time `json:"created_at"` // booking_requests.created_at
	UpdatedAt time.Time `json:"updated_at"` // booking_requests.updated_at
}
