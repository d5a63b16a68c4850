package booking

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/utils"
)

// VenueInput carries the editable fields of a venue.
type VenueInput struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Capacity      uint32 `json:"capacity"`
	OpeningHours  string `json:"openingHours"`
	IsChildVenue  bool   `json:"isChildVenue"`
	ParentVenueID string `json:"parentVenue"`
	Visible       bool   `json:"visible"`
	IsInstantBook bool   `json:"isInstantBook"`
}

// ListVenues returns visible venues, or every venue for admins asking
// for hidden ones too.
func (s *Service) ListVenues(ctx context.Context, actor model.Session, includeHidden bool) ([]model.Venue, error) {
	if includeHidden && !actor.Admin.IsAdmin() {
		return nil, ErrForbidden
	}
	venues, err := s.store.ListVenues(ctx, !includeHidden)
	if err != nil {
		return nil, s.fail(ctx, actor, "venues", err)
	}
	return venues, nil
}

// CreateVenue validates and stores a new venue.
func (s *Service) CreateVenue(ctx context.Context, actor model.Session, in VenueInput) (*model.Venue, error) {
	if !actor.Admin.IsAdmin() {
		return nil, ErrForbidden
	}
	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, s.fail(ctx, actor, "create-venue", err)
	}
	now := s.now().UTC()
	v := &model.Venue{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := s.applyVenue(v, in, h); err != nil {
		return nil, err
	}
	if err := s.store.CreateVenue(ctx, v); err != nil {
		return nil, s.fail(ctx, actor, "create-venue", err)
	}
	utils.LogCtx(ctx, "venue", "create", "venue="+v.ID+" name="+v.Name)
	return v, nil
}

// EditVenue validates and stores changes to an existing venue.
func (s *Service) EditVenue(ctx context.Context, actor model.Session, id string, in VenueInput) (*model.Venue, error) {
	if !actor.Admin.IsAdmin() {
		return nil, ErrForbidden
	}
	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, s.fail(ctx, actor, "edit-venue", err)
	}
	existing, ok := h[strings.TrimSpace(id)]
	if !ok {
		return nil, ErrVenueNotFound
	}
	v := existing
	v.UpdatedAt = s.now().UTC()
	if err := s.applyVenue(&v, in, h); err != nil {
		return nil, err
	}
	if err := s.store.UpdateVenue(ctx, &v); err != nil {
		return nil, s.fail(ctx, actor, "edit-venue", err)
	}
	utils.LogCtx(ctx, "venue", "edit", "venue="+v.ID+" name="+v.Name)
	return &v, nil
}

// applyVenue validates in against the current hierarchy and copies it
// onto v.  Hierarchies are one level deep: a parent cannot itself be a
// child, and a venue with children cannot become a child.
func (s *Service) applyVenue(v *model.Venue, in VenueInput, h Hierarchy) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &ValidationError{Field: "name", Msg: "Please enter a venue name"}
	}
	hours := strings.TrimSpace(in.OpeningHours)
	if _, err := s.codec.OpeningHours(hours); err != nil {
		return err
	}
	parent := ""
	if in.IsChildVenue {
		parent = strings.TrimSpace(in.ParentVenueID)
		if parent == "" {
			return &ValidationError{Field: "parentVenue", Msg: "Please select a parent venue"}
		}
		if parent == v.ID {
			return &ValidationError{Field: "parentVenue", Msg: "A venue cannot be its own parent"}
		}
		p, ok := h[parent]
		if !ok {
			return &ValidationError{Field: "parentVenue", Msg: "Parent venue not found"}
		}
		if p.IsChildVenue {
			return &ValidationError{Field: "parentVenue", Msg: "Parent venue cannot be a child venue"}
		}
		for _, other := range h {
			if other.IsChildVenue && other.ParentVenueID == v.ID {
				return &ValidationError{Field: "isChildVenue", Msg: "A venue with child venues cannot be a child venue"}
			}
		}
	}
	v.Name = name
	v.Description = strings.TrimSpace(in.Description)
	v.Capacity = in.Capacity
	v.OpeningHours = hours
	v.IsChildVenue = in.IsChildVenue
	v.ParentVenueID = parent
	v.Visible = in.Visible
	v.IsInstantBook = in.IsInstantBook
	return nil
}
