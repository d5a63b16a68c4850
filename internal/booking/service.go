// Package booking implements the venue booking workflow: submitting
// requests, checking them for slot conflicts, and moving them through
// approval, rejection and cancellation while keeping the materialized
// venue booking rows in step.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/timeslot"
	"github.com/iliyamo/hall-venue-booking/internal/utils"
)

// loserReason is stored on pending requests rejected because an
// overlapping request was approved.
const loserReason = "Conflicts with an approved booking"

// notifyTimeout bounds one batch of notifications sent after a commit.
const notifyTimeout = 30 * time.Second

// Service applies booking transitions against a Store.  Each exported
// method is one request/response unit with its own transaction.
type Service struct {
	store    Store
	notifier Notifier
	codec    timeslot.Codec
	loc      *time.Location
	now      func() time.Time

	inflight sync.WaitGroup
}

// NewService wires a Service.  A nil notifier drops notifications and a
// nil location means UTC.
func NewService(store Store, notifier Notifier, codec timeslot.Codec, loc *time.Location) *Service {
	if store == nil {
		panic("nil store passed to NewService")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, notifier: notifier, codec: codec, loc: loc, now: time.Now}
}

// Codec returns the slot codec the service validates with.
func (s *Service) Codec() timeslot.Codec { return s.codec }

// Location returns the time zone days are anchored in.
func (s *Service) Location() *time.Location { return s.loc }

// SubmitInput is a resident's booking request.  Either Timing
// ("HHMM - HHMM") or Slots must be set; Timing wins when both are.
type SubmitInput struct {
	VenueID string `json:"venue"`
	Date    string `json:"date"`
	Timing  string `json:"timing"`
	Slots   []int  `json:"timeSlots"`
	CCA     string `json:"cca"`
	Purpose string `json:"purpose"`
}

// Submit creates a PENDING request.  Slots that are already materialized
// on a linked venue fail with *ConflictError.  Requests for an
// instant-book venue are approved in the same transaction.
func (s *Service) Submit(ctx context.Context, actor model.Session, in SubmitInput) (*model.BookingRequest, error) {
	if strings.TrimSpace(actor.Email) == "" {
		return nil, ErrForbidden
	}
	venueID := strings.TrimSpace(in.VenueID)
	if venueID == "" {
		return nil, &ValidationError{Field: "venue", Msg: "No venue found"}
	}
	purpose := strings.TrimSpace(in.Purpose)
	if purpose == "" {
		return nil, &ValidationError{Field: "purpose", Msg: "Please enter a purpose"}
	}
	cca := strings.TrimSpace(in.CCA)
	if cca == "" {
		cca = model.PersonalCCA
	}
	date, err := utils.ParseDay(in.Date, s.loc)
	if err != nil {
		return nil, &ValidationError{Field: "date", Msg: "Invalid date"}
	}
	if date < utils.StartOfDay(s.now(), s.loc).Unix() {
		return nil, &ValidationError{Field: "date", Msg: "Date is in the past"}
	}
	slots, err := s.slotsFrom(in)
	if err != nil {
		return nil, err
	}

	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, s.fail(ctx, actor, "submit", err)
	}
	venue, ok := h[venueID]
	if !ok {
		return nil, ErrVenueNotFound
	}
	if !venue.Visible && !actor.Admin.IsAdmin() {
		return nil, &ValidationError{Field: "venue", Msg: "Venue is not available for booking"}
	}
	if strings.TrimSpace(venue.OpeningHours) != "" {
		hours, err := s.codec.OpeningHours(venue.OpeningHours)
		if err != nil {
			return nil, s.fail(ctx, actor, "submit", fmt.Errorf("venue %s opening hours: %w", venue.ID, err))
		}
		if !hours.Contains(slots) {
			return nil, &ValidationError{Field: "timeSlots", Msg: "Timeslots are outside the venue's opening hours"}
		}
	}

	now := s.now().UTC()
	req := &model.BookingRequest{
		ID:        uuid.NewString(),
		Email:     actor.Email,
		VenueID:   venueID,
		Date:      date,
		TimeSlots: slots,
		CCA:       cca,
		Purpose:   purpose,
		Status:    model.StatusPending,
		Editable:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var losers []model.BookingRequest
	err = s.store.InTx(ctx, func(tx Tx) error {
		rows, err := tx.BookingsForUpdate(ctx, h.Related(venueID), date)
		if err != nil {
			return err
		}
		if taken := ConflictingSlots(*req, rows, h); len(taken) > 0 {
			return &ConflictError{VenueID: venueID, Date: date, Slots: taken}
		}
		if err := tx.CreateRequest(ctx, req); err != nil {
			return err
		}
		if !venue.IsInstantBook {
			return nil
		}
		losers, err = s.approveTx(ctx, tx, req, h)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, actor, "submit", err)
	}
	utils.LogCtx(ctx, "booking", "submit", fmt.Sprintf("request=%s venue=%s status=%s", req.ID, venueID, req.Status))
	if req.Status == model.StatusApproved {
		s.dispatch(ctx, s.decisions(h, *req, losers)...)
	}
	return req, nil
}

// Approve moves a PENDING request to APPROVED, rejects every PENDING
// request it overlaps and materializes its slots, all in one
// transaction.
func (s *Service) Approve(ctx context.Context, actor model.Session, id string) (*model.BookingRequest, error) {
	if !actor.Admin.IsAdmin() {
		return nil, ErrForbidden
	}
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}
	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, s.fail(ctx, actor, "approve", err)
	}
	var (
		req    *model.BookingRequest
		losers []model.BookingRequest
	)
	err = s.store.InTx(ctx, func(tx Tx) error {
		r, err := tx.LockRequest(ctx, id)
		if err != nil {
			return err
		}
		req = r
		losers, err = s.approveTx(ctx, tx, r, h)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, actor, "approve", err)
	}
	utils.LogCtx(ctx, "booking", "approve", fmt.Sprintf("request=%s by=%s losers=%d", req.ID, actor.Email, len(losers)))
	s.dispatch(ctx, s.decisions(h, *req, losers)...)
	return req, nil
}

// approveTx performs the approval inside tx and returns the conflict
// losers it rejected.  req is updated in place.
func (s *Service) approveTx(ctx context.Context, tx Tx, req *model.BookingRequest, h Hierarchy) ([]model.BookingRequest, error) {
	if err := CheckTransition(req.Status, model.StatusApproved); err != nil {
		return nil, err
	}
	related := h.Related(req.VenueID)
	rows, err := tx.BookingsForUpdate(ctx, related, req.Date)
	if err != nil {
		return nil, err
	}
	if taken := ConflictingSlots(*req, rows, h); len(taken) > 0 {
		return nil, &ConflictError{VenueID: req.VenueID, Date: req.Date, Slots: taken}
	}
	if err := tx.SetStatus(ctx, req.ID, req.Status, model.StatusApproved, ""); err != nil {
		return nil, err
	}
	pending, err := tx.PendingRequests(ctx, related, req.Date, req.ID)
	if err != nil {
		return nil, err
	}
	var losers []model.BookingRequest
	for _, p := range pending {
		if !Overlaps(*req, p, h) {
			continue
		}
		if err := tx.SetStatus(ctx, p.ID, model.StatusPending, model.StatusRejected, loserReason); err != nil {
			return nil, err
		}
		p.Status = model.StatusRejected
		p.Reason = loserReason
		p.Editable = false
		losers = append(losers, p)
	}
	if err := tx.CreateRows(ctx, req); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, &ConflictError{VenueID: req.VenueID, Date: req.Date, Slots: req.TimeSlots, Err: err}
		}
		return nil, err
	}
	req.Status = model.StatusApproved
	req.Editable = false
	req.Reason = ""
	return losers, nil
}

// Reject moves a PENDING or APPROVED request to REJECTED.  An approved
// request's materialized rows are deleted first.
func (s *Service) Reject(ctx context.Context, actor model.Session, id, reason string) (*model.BookingRequest, error) {
	if !actor.Admin.IsAdmin() {
		return nil, ErrForbidden
	}
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Msg: "Please provide a reason"}
	}
	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, s.fail(ctx, actor, "reject", err)
	}
	req, drift, err := s.close(ctx, id, model.StatusRejected, reason, nil)
	if err != nil {
		return nil, s.fail(ctx, actor, "reject", err)
	}
	s.logDrift(ctx, drift)
	utils.LogCtx(ctx, "booking", "reject", fmt.Sprintf("request=%s by=%s", req.ID, actor.Email))
	s.dispatch(ctx, s.notification(h, *req))
	return req, nil
}

// Cancel lets the requester withdraw a PENDING or APPROVED request.
func (s *Service) Cancel(ctx context.Context, actor model.Session, id string) (*model.BookingRequest, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}
	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, s.fail(ctx, actor, "cancel", err)
	}
	var wasApproved bool
	req, drift, err := s.close(ctx, id, model.StatusCancelled, "", func(r *model.BookingRequest) error {
		if !strings.EqualFold(r.Email, actor.Email) {
			return ErrForbidden
		}
		wasApproved = r.Status == model.StatusApproved
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, actor, "cancel", err)
	}
	s.logDrift(ctx, drift)
	utils.LogCtx(ctx, "booking", "cancel", fmt.Sprintf("request=%s by=%s", req.ID, actor.Email))
	if wasApproved {
		s.dispatch(ctx, s.notification(h, *req))
	}
	return req, nil
}

// close runs a transition to a terminal status, releasing materialized
// rows when leaving APPROVED.  guard runs on the locked row before the
// transition is checked.
func (s *Service) close(ctx context.Context, id string, to model.Status, reason string, guard func(*model.BookingRequest) error) (*model.BookingRequest, *DriftWarning, error) {
	var (
		req   *model.BookingRequest
		drift *DriftWarning
	)
	err := s.store.InTx(ctx, func(tx Tx) error {
		r, err := tx.LockRequest(ctx, id)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(r); err != nil {
				return err
			}
		}
		from := r.Status
		if err := CheckTransition(from, to); err != nil {
			return err
		}
		if releasesRows(from) {
			deleted, err := tx.DeleteRows(ctx, r)
			if err != nil {
				return err
			}
			if deleted != len(r.TimeSlots) {
				drift = &DriftWarning{RequestID: r.ID, Expected: len(r.TimeSlots), Deleted: deleted}
			}
		}
		if err := tx.SetStatus(ctx, r.ID, from, to, reason); err != nil {
			return err
		}
		r.Status = to
		r.Reason = reason
		r.Editable = false
		req = r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return req, drift, nil
}

// Get returns one request.  Residents only see their own.
func (s *Service) Get(ctx context.Context, actor model.Session, id string) (*model.BookingRequest, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, actor, "get", err)
	}
	if !actor.Admin.IsAdmin() && !strings.EqualFold(req.Email, actor.Email) {
		return nil, ErrForbidden
	}
	return req, nil
}

// ListMine returns the acting user's requests.
func (s *Service) ListMine(ctx context.Context, actor model.Session) ([]model.BookingRequest, error) {
	reqs, err := s.store.ListRequestsByEmail(ctx, actor.Email)
	if err != nil {
		return nil, s.fail(ctx, actor, "list", err)
	}
	return reqs, nil
}

// ListByStatus returns every request in one status for admins.  An
// empty status means PENDING.
func (s *Service) ListByStatus(ctx context.Context, actor model.Session, status string) ([]model.BookingRequest, error) {
	if !actor.Admin.IsAdmin() {
		return nil, ErrForbidden
	}
	st := model.StatusPending
	if raw := strings.ToUpper(strings.TrimSpace(status)); raw != "" {
		var ok bool
		if st, ok = model.ParseStatus(raw); !ok {
			return nil, &ValidationError{Field: "status", Msg: "Invalid status"}
		}
	}
	reqs, err := s.store.ListRequestsByStatus(ctx, st)
	if err != nil {
		return nil, s.fail(ctx, actor, "list", err)
	}
	return reqs, nil
}

// BookedSlots returns the occupied slots of a venue on a day, counting
// rows on linked venues.
func (s *Service) BookedSlots(ctx context.Context, actor model.Session, venueID, day string) ([]int, error) {
	venueID = strings.TrimSpace(venueID)
	date, err := utils.ParseDay(day, s.loc)
	if err != nil {
		return nil, &ValidationError{Field: "date", Msg: "Invalid date"}
	}
	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, s.fail(ctx, actor, "slots", err)
	}
	if _, ok := h[venueID]; !ok {
		return nil, ErrVenueNotFound
	}
	rows, err := s.store.BookingsByVenues(ctx, h.Related(venueID), date)
	if err != nil {
		return nil, s.fail(ctx, actor, "slots", err)
	}
	slots := make([]int, 0, len(rows))
	for _, r := range rows {
		if r.Date == date && h.Linked(venueID, r.VenueID) {
			slots = append(slots, r.Slot)
		}
	}
	return timeslot.Normalize(slots), nil
}

// BookingRange is a run of contiguous materialized slots belonging to
// one request, as shown on the admin calendar.
type BookingRange struct {
	RequestID string `json:"id"`
	Email     string `json:"email"`
	VenueID   string `json:"venueID"`
	VenueName string `json:"venue"`
	Date      string `json:"date"`
	Timing    string `json:"timingSlot"`
	Slots     []int  `json:"slots"`
	CCA       string `json:"cca"`
	Purpose   string `json:"purpose"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// VenueBookings returns every materialized booking of a venue merged
// into contiguous ranges per request and day.
func (s *Service) VenueBookings(ctx context.Context, actor model.Session, venueID string) ([]BookingRange, error) {
	if !actor.Admin.IsAdmin() {
		return nil, ErrForbidden
	}
	venue, err := s.store.GetVenue(ctx, strings.TrimSpace(venueID))
	if err != nil {
		return nil, s.fail(ctx, actor, "venue-bookings", err)
	}
	rows, err := s.store.BookingsByVenue(ctx, venue.ID)
	if err != nil {
		return nil, s.fail(ctx, actor, "venue-bookings", err)
	}
	type groupKey struct {
		request string
		date    int64
	}
	var order []groupKey
	groups := make(map[groupKey][]model.VenueBooking)
	for _, r := range rows {
		k := groupKey{request: r.BookingRequestID, date: r.Date}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	out := make([]BookingRange, 0, len(order))
	for _, k := range order {
		g := groups[k]
		slots := make([]int, len(g))
		for i, r := range g {
			slots[i] = r.Slot
		}
		day := time.Unix(k.date, 0).In(s.loc)
		for _, run := range timeslot.MergeContiguous(slots) {
			timing, err := s.codec.FormatSlots(run)
			if err != nil {
				timing = timeslot.EncodeList(run)
			}
			minutes := time.Duration(s.codec.SlotMinutes()) * time.Minute
			out = append(out, BookingRange{
				RequestID: k.request,
				Email:     g[0].Email,
				VenueID:   venue.ID,
				VenueName: venue.Name,
				Date:      utils.PrettifyDay(k.date, s.loc),
				Timing:    timing,
				Slots:     run,
				CCA:       g[0].CCA,
				Purpose:   g[0].Purpose,
				Start:     day.Add(time.Duration(run[0]) * minutes).Format(time.RFC3339),
				End:       day.Add(time.Duration(run[len(run)-1]+1) * minutes).Format(time.RFC3339),
			})
		}
	}
	return out, nil
}

func (s *Service) slotsFrom(in SubmitInput) ([]int, error) {
	if strings.TrimSpace(in.Timing) != "" {
		return s.codec.ParseSlots(in.Timing)
	}
	if len(in.Slots) == 0 {
		return nil, &ValidationError{Field: "timeSlots", Msg: "Please select a timeslot"}
	}
	slots := timeslot.Normalize(in.Slots)
	if len(slots) != len(in.Slots) || !timeslot.Contiguous(slots) {
		return nil, &ValidationError{Field: "timeSlots", Msg: "Timeslots must form one contiguous range"}
	}
	if slots[0] < 0 || slots[len(slots)-1] >= s.codec.SlotsPerDay() {
		return nil, &ValidationError{Field: "timeSlots", Msg: "Timeslot out of range"}
	}
	return slots, nil
}

func (s *Service) hierarchy(ctx context.Context) (Hierarchy, error) {
	venues, err := s.store.ListVenues(ctx, false)
	if err != nil {
		return nil, err
	}
	return NewHierarchy(venues), nil
}

// notification renders a decided request for the notifier.
func (s *Service) notification(h Hierarchy, r model.BookingRequest) Notification {
	timing, err := s.codec.FormatSlots(r.TimeSlots)
	if err != nil {
		timing = timeslot.EncodeList(r.TimeSlots)
	}
	name := r.VenueID
	if v, ok := h[r.VenueID]; ok && v.Name != "" {
		name = v.Name
	}
	return Notification{
		RequestID: r.ID,
		Email:     r.Email,
		Decision:  r.Status,
		CCA:       r.CCA,
		VenueID:   r.VenueID,
		VenueName: name,
		Date:      utils.PrettifyDay(r.Date, s.loc),
		Timing:    timing,
		Reason:    r.Reason,
	}
}

// decisions returns the approval followed by its conflict losers.
func (s *Service) decisions(h Hierarchy, approved model.BookingRequest, losers []model.BookingRequest) []Notification {
	out := make([]Notification, 0, len(losers)+1)
	out = append(out, s.notification(h, approved))
	for _, l := range losers {
		out = append(out, s.notification(h, l))
	}
	return out
}

// dispatch hands committed decisions to the notifier in the background,
// in order.  The context keeps ctx's values but not its cancellation, so
// a caller hanging up after the commit does not drop the messages.
// Failures are logged only.
func (s *Service) dispatch(ctx context.Context, notes ...Notification) {
	if len(notes) == 0 {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		for _, n := range notes {
			if err := s.notifier.Notify(nctx, n); err != nil {
				utils.LogCtx(nctx, "notify", "send", fmt.Sprintf("request=%s err=%v", n.RequestID, err))
			}
		}
	}()
}

// Wait blocks until every dispatched notification has been handed to the
// notifier.  The server calls it on shutdown.
func (s *Service) Wait() { s.inflight.Wait() }

func (s *Service) logDrift(ctx context.Context, drift *DriftWarning) {
	if drift != nil {
		utils.LogCtx(ctx, "booking", "drift", drift.Error())
	}
}

// fail passes expected errors through and turns everything else into a
// logged *StorageError.
func (s *Service) fail(ctx context.Context, actor model.Session, op string, err error) error {
	if expected(err) || errors.Is(err, ErrStaleStatus) {
		return err
	}
	utils.LogCtx(ctx, "booking", op, fmt.Sprintf("email=%s err=%v", actor.Email, err))
	return &StorageError{Op: op, Err: err}
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &ValidationError{Field: "id", Msg: "No booking ID found"}
	}
	return id, nil
}
