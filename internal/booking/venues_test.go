package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

func TestCreateVenue(t *testing.T) {
	svc, store, _ := newTestService(mainHall(), childVenue("hall-a", "hall"))
	ctx := context.Background()

	v, err := svc.CreateVenue(ctx, adminSession, VenueInput{Name: " Band Room ", OpeningHours: "0900 - 2300", Capacity: 20, Visible: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.ID == "" || v.Name != "Band Room" || v.IsChildVenue || store.createdVenues != 1 {
		t.Fatalf("venue = %+v", v)
	}

	cases := []struct {
		name string
		in   VenueInput
	}{
		{"no name", VenueInput{OpeningHours: "0900 - 1700"}},
		{"bad hours", VenueInput{Name: "x", OpeningHours: "9 to 5"}},
		{"child without parent", VenueInput{Name: "x", OpeningHours: "0900 - 1700", IsChildVenue: true}},
		{"unknown parent", VenueInput{Name: "x", OpeningHours: "0900 - 1700", IsChildVenue: true, ParentVenueID: "nowhere"}},
		{"grandchild", VenueInput{Name: "x", OpeningHours: "0900 - 1700", IsChildVenue: true, ParentVenueID: "hall-a"}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateVenue(ctx, adminSession, tc.in); !IsValidation(err) {
			t.Errorf("%s: error = %v, want validation", tc.name, err)
		}
	}
	if _, err := svc.CreateVenue(ctx, alice, VenueInput{Name: "x", OpeningHours: "0900 - 1700"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("resident create error = %v", err)
	}
	if store.createdVenues != 1 {
		t.Fatalf("created = %d", store.createdVenues)
	}
}

func TestEditVenue(t *testing.T) {
	svc, store, _ := newTestService(mainHall(), childVenue("hall-a", "hall"), model.Venue{ID: "studio", Name: "Studio", OpeningHours: "0800 - 2200"})
	ctx := context.Background()

	if _, err := svc.EditVenue(ctx, adminSession, "hall", VenueInput{Name: "Main Hall", OpeningHours: "0800 - 2200", IsChildVenue: true, ParentVenueID: "studio"}); !IsValidation(err) {
		t.Fatalf("parent with children becoming a child: %v", err)
	}
	if _, err := svc.EditVenue(ctx, adminSession, "studio", VenueInput{Name: "Studio", OpeningHours: "0800 - 2200", IsChildVenue: true, ParentVenueID: "studio"}); !IsValidation(err) {
		t.Fatalf("self parent: %v", err)
	}
	if _, err := svc.EditVenue(ctx, adminSession, "missing", VenueInput{Name: "x", OpeningHours: "0800 - 2200"}); !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("missing venue: %v", err)
	}

	v, err := svc.EditVenue(ctx, adminSession, "studio", VenueInput{Name: "Studio B", OpeningHours: "1000 - 1800", IsChildVenue: true, ParentVenueID: "hall", IsInstantBook: true})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if v.Name != "Studio B" || v.ParentVenueID != "hall" || !v.IsInstantBook || store.updatedVenues != 1 {
		t.Fatalf("venue = %+v", v)
	}
	if got := NewHierarchy([]model.Venue{*v, mainHall()}).Linked("studio", "hall"); !got {
		t.Fatalf("edited venue should be linked to its new parent")
	}
}

func TestListVenues(t *testing.T) {
	hidden := model.Venue{ID: "store", Name: "Store Room"}
	svc, _, _ := newTestService(mainHall(), hidden)
	ctx := context.Background()

	visible, err := svc.ListVenues(ctx, alice, false)
	if err != nil || len(visible) != 1 {
		t.Fatalf("visible = %v, %v", visible, err)
	}
	all, err := svc.ListVenues(ctx, adminSession, true)
	if err != nil || len(all) != 2 {
		t.Fatalf("all = %v, %v", all, err)
	}
	if _, err := svc.ListVenues(ctx, alice, true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("resident hidden list error = %v", err)
	}
}
