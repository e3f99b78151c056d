package events_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"confighub-core/internal/domain/events"
)

type testEvent struct {
	events.BaseEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseEvent: events.NewBaseEvent(eventType, "agg-1")}
}

func TestDispatcher_RoutesByType(t *testing.T) {
	d := events.NewDispatcher(nil)

	var created, shared atomic.Int32
	d.Register(func(ctx context.Context, e events.DomainEvent) error {
		created.Add(1)
		return nil
	}, "thing.created")
	d.Register(func(ctx context.Context, e events.DomainEvent) error {
		shared.Add(1)
		return nil
	}, "thing.created", "thing.deleted")

	if err := d.Dispatch(context.Background(), newTestEvent("thing.created")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if err := d.Dispatch(context.Background(), newTestEvent("thing.deleted")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if err := d.Dispatch(context.Background(), newTestEvent("thing.ignored")); err != nil {
		t.Fatalf("Dispatch() without handlers error = %v", err)
	}

	if created.Load() != 1 {
		t.Errorf("created handler ran %d times, want 1", created.Load())
	}
	if shared.Load() != 2 {
		t.Errorf("shared handler ran %d times, want 2", shared.Load())
	}
}

func TestDispatcher_JoinsHandlerErrors(t *testing.T) {
	d := events.NewDispatcher(nil)
	boom := errors.New("boom")

	var ran atomic.Int32
	d.Register(func(ctx context.Context, e events.DomainEvent) error {
		ran.Add(1)
		return boom
	}, "thing.created")
	d.Register(func(ctx context.Context, e events.DomainEvent) error {
		ran.Add(1)
		return nil
	}, "thing.created")

	err := d.Dispatch(context.Background(), newTestEvent("thing.created"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to wrap boom, got %v", err)
	}
	if ran.Load() != 2 {
		t.Errorf("a failing handler must not stop the others")
	}
}

func TestBaseEvent(t *testing.T) {
	e := newTestEvent("thing.created")
	if e.EventID() == "" || e.OccurredAt().IsZero() {
		t.Error("expected event id and timestamp")
	}
	if e.AggregateID() != "agg-1" || e.EventType() != "thing.created" {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestNopPublisher(t *testing.T) {
	if err := (events.NopPublisher{}).Dispatch(context.Background(), newTestEvent("x")); err != nil {
		t.Errorf("NopPublisher returned %v", err)
	}
}
