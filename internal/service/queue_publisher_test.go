package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	q "github.com/iliyamo/hall-venue-booking/internal/queue"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
}

func (c *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func newTestPublisher(ch *fakeChannel, dialErr error) (*QueuePublisher, *int) {
	released := 0
	p := NewQueuePublisher("")
	p.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	p.dial = func(context.Context, string) (publishChannel, func(), error) {
		if dialErr != nil {
			return nil, nil, dialErr
		}
		return ch, func() { released++ }, nil
	}
	return p, &released
}

func TestNotifyPublishesPersistentEvent(t *testing.T) {
	ch := &fakeChannel{}
	p, released := newTestPublisher(ch, nil)
	n := booking.Notification{RequestID: "r1", Decision: model.StatusApproved, CCA: "Dance", VenueName: "Main Hall", Timing: "0900 - 1100"}

	if err := p.Notify(context.Background(), n); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != q.DecisionQueue || ch.keys[0] != q.DecisionQueue {
		t.Fatalf("declared %v, routed %v", ch.declared, ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" || msg.MessageId != "r1" {
		t.Fatalf("publishing = %+v", msg)
	}
	var ev q.BookingDecisionEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		t.Fatalf("body: %v", err)
	}
	if ev.RequestID != "r1" || ev.Timeslots != "0900 - 1100" || ev.DecidedAt != "2026-03-01T08:00:00Z" {
		t.Fatalf("event = %+v", ev)
	}
	if *released != 1 {
		t.Fatalf("released %d times", *released)
	}
}

func TestNotifyReturnsBrokerErrors(t *testing.T) {
	p, _ := newTestPublisher(nil, errors.New("connection refused"))
	if err := p.Notify(context.Background(), booking.Notification{RequestID: "r1"}); err == nil {
		t.Fatalf("expected dial error")
	}

	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, released := newTestPublisher(ch, nil)
	if err := p.Notify(context.Background(), booking.Notification{RequestID: "r1"}); err == nil {
		t.Fatalf("expected publish error")
	}
	if *released != 1 {
		t.Fatalf("channel not released after failure")
	}
}
