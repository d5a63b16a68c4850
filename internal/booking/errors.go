package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/timeslot"
)

var (
	// ErrNotFound is returned when a booking request does not exist.
	ErrNotFound = errors.New("No booking found")
	// ErrVenueNotFound is returned when a venue does not exist.
	ErrVenueNotFound = errors.New("Venue not found")
	// ErrForbidden is returned when the acting session may not perform
	// the operation.
	ErrForbidden = errors.New("Unauthorized access")
	// ErrSlotTaken is returned by a Tx when inserting a venue booking row
	// hits the (venue, date, slot) unique key.
	ErrSlotTaken = errors.New("venue slot already booked")
	// ErrStaleStatus is returned by a Tx when a status update finds the
	// row in a different state than expected.
	ErrStaleStatus = errors.New("booking request status changed")
)

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

// StateConflictError reports a transition requested from a state that
// does not allow it.
type StateConflictError struct {
	Current model.Status
	Target  model.Status
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("Request already %s!", strings.ToLower(string(e.Current)))
}

// ConflictError reports overlapping slots on the same venue hierarchy
// and date.
type ConflictError struct {
	VenueID string
	Date    int64
	Slots   []int
	Err     error
}

func (e *ConflictError) Error() string { return "Conflicts found in booking" }

func (e *ConflictError) Unwrap() error { return e.Err }

// StorageError wraps a persistence failure.  Its message is generic; the
// cause is logged where the error is created.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "Failed to process request" }

func (e *StorageError) Unwrap() error { return e.Err }

// DriftWarning reports materialized rows that were expected but missing
// when a booking was reversed.  It is logged and never fails the
// transition.
type DriftWarning struct {
	RequestID string
	Expected  int
	Deleted   int
}

func (e *DriftWarning) Error() string {
	return fmt.Sprintf("booking request %s: expected %d venue booking rows, deleted %d", e.RequestID, e.Expected, e.Deleted)
}

// IsValidation reports whether err is caller input the service refused.
func IsValidation(err error) bool {
	var v *ValidationError
	var f *timeslot.FormatError
	return errors.As(err, &v) || errors.As(err, &f)
}

// IsStateConflict reports whether err is a *StateConflictError.
func IsStateConflict(err error) bool {
	var s *StateConflictError
	return errors.As(err, &s)
}

// IsConflict reports whether err is a *ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsStorage reports whether err is a *StorageError.
func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}

// expected reports whether err belongs to the taxonomy surfaced to
// callers verbatim.
func expected(err error) bool {
	return IsValidation(err) || IsStateConflict(err) || IsConflict(err) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrVenueNotFound) || errors.Is(err, ErrForbidden)
}
