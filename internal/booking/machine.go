package booking

import "github.com/iliyamo/hall-venue-booking/internal/model"

// transitions lists every legal status change.  REJECTED from APPROVED
// is an admin revocation and reverses the materialized rows.
var transitions = map[model.Status]map[model.Status]bool{
	model.StatusPending: {
		model.StatusApproved:  true,
		model.StatusRejected:  true,
		model.StatusCancelled: true,
	},
	model.StatusApproved: {
		model.StatusRejected:  true,
		model.StatusCancelled: true,
	},
}

// CheckTransition returns a *StateConflictError unless from may move to
// to.  Asking for the state a request is already in is always refused.
func CheckTransition(from, to model.Status) error {
	if transitions[from][to] {
		return nil
	}
	return &StateConflictError{Current: from, Target: to}
}

// releasesRows reports whether leaving from must delete materialized
// rows.
func releasesRows(from model.Status) bool {
	return from == model.StatusApproved
}
