package events

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBusPublishJSON(t *testing.T) {
	bus := NewBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventDataQuality, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	payload := QualityEventPayload{OwnerID: 10, Query: "period_metrics", UnresolvedCourt: 2}
	if err := bus.PublishJSON(EventDataQuality, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if received.Type != EventDataQuality {
		t.Errorf("expected type %s, got %s", EventDataQuality, received.Type)
	}
	if received.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	var decoded QualityEventPayload
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.UnresolvedCourt != 2 {
		t.Errorf("expected 2 unresolved courts, got %d", decoded.UnresolvedCourt)
	}
}

func TestBusIgnoresHandlerErrors(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		calls++
		return errors.New("boom")
	})
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		calls++
		return nil
	})

	if err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 1}); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected both handlers called, got %d", calls)
	}
}

func TestBusNoSubscribers(t *testing.T) {
	bus := NewBus()
	if err := bus.PublishJSON("unknown", struct{}{}); err != nil {
		t.Fatalf("publish without subscribers should not fail: %v", err)
	}

	var nilBus *Bus
	if err := nilBus.PublishJSON(EventReportReady, struct{}{}); err != nil {
		t.Fatalf("nil bus should be a no-op: %v", err)
	}
}

func TestRegisterDefaultHandlers(t *testing.T) {
	bus := NewBus()
	RegisterDefaultHandlers(bus, nil)

	for _, eventType := range AllEventTypes {
		if got := len(bus.subscribers[eventType]); got != 1 {
			t.Errorf("expected 1 subscriber for %s, got %d", eventType, got)
		}
	}

	// the default handler must consume every published type without error
	for _, eventType := range AllEventTypes {
		if err := bus.PublishJSON(eventType, struct{}{}); err != nil {
			t.Fatalf("publish %s failed: %v", eventType, err)
		}
	}
}
