// Package queue defines the booking decision message exchanged over
// RabbitMQ and the background consumer that delivers it.
package queue

import (
	"time"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// DecisionQueue is the durable queue booking decisions are published to.
const DecisionQueue = "booking.decision"

// BookingDecisionEvent is published after a booking request is approved,
// rejected or cancelled.  It carries the display fields so consumers
// never query the primary database.
type BookingDecisionEvent struct {
	RequestID string       `json:"request_id"`
	Email     string       `json:"email"`
	Decision  model.Status `json:"decision"`
	CCA       string       `json:"cca"`
	VenueID   string       `json:"venue_id"`
	VenueName string       `json:"venue"`
	Date      string       `json:"date"`
	Timeslots string       `json:"timeslots"`
	Reason    string       `json:"reason,omitempty"`
	DecidedAt string       `json:"decided_at"`
}

// NewDecisionEvent builds the event for a notification decided at t.
func NewDecisionEvent(n booking.Notification, t time.Time) BookingDecisionEvent {
	return BookingDecisionEvent{
		RequestID: n.RequestID,
		Email:     n.Email,
		Decision:  n.Decision,
		CCA:       n.CCA,
		VenueID:   n.VenueID,
		VenueName: n.VenueName,
		Date:      n.Date,
		Timeslots: n.Timing,
		Reason:    n.Reason,
		DecidedAt: t.UTC().Format(time.RFC3339),
	}
}

// Notification converts the event back to the channel message form.
func (e BookingDecisionEvent) Notification() booking.Notification {
	return booking.Notification{
		RequestID: e.RequestID,
		Email:     e.Email,
		Decision:  e.Decision,
		CCA:       e.CCA,
		VenueID:   e.VenueID,
		VenueName: e.VenueName,
		Date:      e.Date,
		Timing:    e.Timeslots,
		Reason:    e.Reason,
	}
}
