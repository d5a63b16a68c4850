package booking

import (
	"context"
	"fmt"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// Notification describes a decided booking request in display form.
type Notification struct {
	RequestID string       `json:"request_id"`
	Email     string       `json:"email"`
	Decision  model.Status `json:"decision"`
	CCA       string       `json:"cca"`
	VenueID   string       `json:"venue_id"`
	VenueName string       `json:"venue"`
	Date      string       `json:"date"`
	Timing    string       `json:"timeslots"`
	Reason    string       `json:"reason,omitempty"`
}

// Message renders the channel text for the decision.
func (n Notification) Message() string {
	return fmt.Sprintf("[%s]\nCCA: %s\nVenue: %s\nDate: %s\nTimeslot(s): %s", n.Decision, n.CCA, n.VenueName, n.Date, n.Timing)
}

// Notifier is told about decisions after they are committed.  Errors are
// logged by the caller and never undo the decision.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error { return nil }
