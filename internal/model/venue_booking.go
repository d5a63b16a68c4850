package model

import "time"

// VenueBooking is one occupied (venue, date, slot) tuple derived from an
// approved booking request.  At most one row exists per tuple; the
// database enforces this with a unique key.
type VenueBooking struct {
	ID               string    `json:"id"`             // venue_bookings.id
	BookingRequestID string    `json:"bookingRequest"` // venue_bookings.booking_request_id
	Email            string    `json:"email"`          // venue_bookings.email
	VenueID          string    `json:"venue"`          // venue_bookings.venue_id
	Date             int64     `json:"date"`           // venue_bookings.date
	Slot             int       `json:"timingSlot"`     // venue_bookings.slot
	CCA              string    `json:"cca"`            // venue_bookings.cca
	Purpose          string    `json:"purpose"`        // venue_bookings.purpose
	CreatedAt        time.Time `json:"created_at"`     // venue_bookings.created_at
}
