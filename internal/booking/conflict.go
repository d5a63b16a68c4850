package booking

import "github.com/iliyamo/hall-venue-booking/internal/model"

// Hierarchy indexes venues by ID so parent/child links can be followed.
type Hierarchy map[string]model.Venue

// NewHierarchy builds a Hierarchy from a venue list.
func NewHierarchy(venues []model.Venue) Hierarchy {
	h := make(Hierarchy, len(venues))
	for _, v := range venues {
		h[v.ID] = v
	}
	return h
}

func (h Hierarchy) parent(id string) string {
	if v, ok := h[id]; ok && v.IsChildVenue {
		return v.ParentVenueID
	}
	return ""
}

// Linked reports whether a booking on a blocks the same slot on b: the
// same venue, or a child and its parent in either direction.  Siblings
// under one parent are independent.
func (h Hierarchy) Linked(a, b string) bool {
	if a == b {
		return true
	}
	if p := h.parent(a); p != "" && p == b {
		return true
	}
	if p := h.parent(b); p != "" && p == a {
		return true
	}
	return false
}

// Related returns id followed by every venue linked to it.
func (h Hierarchy) Related(id string) []string {
	out := []string{id}
	if p := h.parent(id); p != "" {
		out = append(out, p)
	}
	for vid, v := range h {
		if vid != id && v.IsChildVenue && v.ParentVenueID == id {
			out = append(out, vid)
		}
	}
	return out
}

// HasConflict reports whether any existing row occupies one of the
// candidate's slots on the same date on a linked venue.  It reads no
// storage; callers pass a snapshot of materialized rows.
func HasConflict(candidate model.BookingRequest, existing []model.VenueBooking, h Hierarchy) bool {
	return len(ConflictingSlots(candidate, existing, h)) > 0
}

// ConflictingSlots returns the candidate slots that are already
// occupied, in the candidate's order.
func ConflictingSlots(candidate model.BookingRequest, existing []model.VenueBooking, h Hierarchy) []int {
	taken := make(map[int]bool)
	for _, row := range existing {
		if row.Date != candidate.Date || !h.Linked(candidate.VenueID, row.VenueID) {
			continue
		}
		taken[row.Slot] = true
	}
	var out []int
	for _, s := range candidate.TimeSlots {
		if taken[s] {
			out = append(out, s)
		}
	}
	return out
}

// Overlaps reports whether two requests compete for at least one slot on
// linked venues and the same date.  It is symmetric.
func Overlaps(a, b model.BookingRequest, h Hierarchy) bool {
	if a.Date != b.Date || !h.Linked(a.VenueID, b.VenueID) {
		return false
	}
	slots := make(map[int]bool, len(a.TimeSlots))
	for _, s := range a.TimeSlots {
		slots[s] = true
	}
	for _, s := range b.TimeSlots {
		if slots[s] {
			return true
		}
	}
	return false
}
