package model

import "time"

// Venue represents a bookable room or area of the hall.  Venues can
// be grouped: a child venue points at its parent through
// ParentVenueID, and a booking on either side of that link blocks the
// same slots on the other.
//
// Fields:
//  ID            – primary key identifier (UUID).
//  Name          – display name.
//  Description   – free text shown to residents.
//  Capacity      – number of people the venue holds.
//  OpeningHours  – "HHMM - HHMM" range in which slots may be booked.
//  IsChildVenue  – whether the venue belongs to a parent venue.
//  ParentVenueID – parent venue ID when IsChildVenue is true.
//  Visible       – whether residents can see and book the venue.
//  IsInstantBook – whether requests are approved on submission.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Venue struct {
	ID            string    `json:"id"`            // venues.id
	Name          string    `json:"name"`          // venues.name
	Description   string    `json:"description"`   // venues.description
	Capacity      uint32    `json:"capacity"`      // venues.capacity
	OpeningHours  string    `json:"openingHours"`  // venues.opening_hours
	IsChildVenue  bool      `json:"isChildVenue"`  // venues.is_child_venue
	ParentVenueID string    `json:"parentVenue"`   // venues.parent_venue_id ('' when none)
	Visible       bool      `json:"visible"`       // venues.visible
	IsInstantBook bool      `json:"isInstantBook"` // venues.is_instant_book
	CreatedAt     time.Time `json:"created_at"`    // venues.created_at
	UpdatedAt     time.Time `json:"updated_at"`    // venues.updated_at
}
