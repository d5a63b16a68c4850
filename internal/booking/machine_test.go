package booking

import (
	"testing"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

func TestCheckTransition(t *testing.T) {
	all := []model.Status{model.StatusPending, model.StatusApproved, model.StatusRejected, model.StatusCancelled}
	legal := map[[2]model.Status]bool{
		{model.StatusPending, model.StatusApproved}:   true,
		{model.StatusPending, model.StatusRejected}:   true,
		{model.StatusPending, model.StatusCancelled}:  true,
		{model.StatusApproved, model.StatusRejected}:  true,
		{model.StatusApproved, model.StatusCancelled}: true,
	}
	for _, from := range all {
		for _, to := range all {
			err := CheckTransition(from, to)
			if legal[[2]model.Status{from, to}] {
				if err != nil {
					t.Errorf("%s -> %s: unexpected error %v", from, to, err)
				}
				continue
			}
			if !IsStateConflict(err) {
				t.Errorf("%s -> %s: error = %v, want StateConflictError", from, to, err)
			}
		}
	}
}

func TestStateConflictMessage(t *testing.T) {
	cases := map[model.Status]string{
		model.StatusApproved:  "Request already approved!",
		model.StatusRejected:  "Request already rejected!",
		model.StatusCancelled: "Request already cancelled!",
	}
	for from, want := range cases {
		err := CheckTransition(from, model.StatusApproved)
		if err == nil || err.Error() != want {
			t.Errorf("from %s: %v, want %q", from, err, want)
		}
	}
}

func TestReleasesRows(t *testing.T) {
	if !releasesRows(model.StatusApproved) {
		t.Fatalf("leaving APPROVED must release rows")
	}
	if releasesRows(model.StatusPending) {
		t.Fatalf("leaving PENDING has no rows to release")
	}
}
