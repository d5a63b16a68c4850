package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/model"
)

type recordingSender struct {
	texts []string
	err   error
}

func (s *recordingSender) Send(_ context.Context, text string) error {
	s.texts = append(s.texts, text)
	return s.err
}

func approvedEvent() BookingDecisionEvent {
	return NewDecisionEvent(booking.Notification{
		RequestID: "r1",
		Email:     "alice@hall.test",
		Decision:  model.StatusApproved,
		CCA:       "Dance",
		VenueID:   "hall",
		VenueName: "Main Hall",
		Date:      "Tue, 10 Mar 2026",
		Timing:    "0900 - 1100",
	}, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
}

func TestDecisionHandlerLogsAndForwards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	sender := &recordingSender{err: errors.New("telegram down")}
	h := &DecisionHandler{LogPath: path, Forward: sender}

	body, _ := json.Marshal(approvedEvent())
	if err := h.Handle(context.Background(), body); err != nil {
		t.Fatalf("handle: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.HasPrefix(line, "[2026-03-01T08:00:00Z] Booking APPROVED | request_id=r1") || !strings.Contains(line, `timeslots="0900 - 1100"`) {
		t.Fatalf("log line = %q", line)
	}
	want := "[APPROVED]\nCCA: Dance\nVenue: Main Hall\nDate: Tue, 10 Mar 2026\nTimeslot(s): 0900 - 1100"
	if len(sender.texts) != 1 || sender.texts[0] != want {
		t.Fatalf("forwarded = %q", sender.texts)
	}
}

func TestDecisionHandlerRejectsBadMessages(t *testing.T) {
	h := &DecisionHandler{LogPath: filepath.Join(t.TempDir(), "booking.log")}
	for _, body := range []string{"not json", `{"decision":"APPROVED"}`} {
		if err := h.Handle(context.Background(), []byte(body)); err == nil {
			t.Errorf("body %q: expected error", body)
		}
	}
}

func TestEventCarriesReason(t *testing.T) {
	n := booking.Notification{RequestID: "r2", Decision: model.StatusRejected, Reason: "Maintenance", Timing: "1000 - 1030"}
	ev := NewDecisionEvent(n, time.Now())
	if back := ev.Notification(); back != n {
		t.Fatalf("notification = %+v, want %+v", back, n)
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleep(ctx, time.Minute) {
		t.Fatalf("sleep should stop on a cancelled context")
	}
}
