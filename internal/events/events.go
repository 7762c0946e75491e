package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventCourtDeactivated     = "court_deactivated"
	EventDataQuality          = "data_quality"
	EventReportReady          = "report_ready"
)

// BookingEventPayload is the booking snapshot handed to subscribers.
type BookingEventPayload struct {
	BookingID int64     `json:"booking_id"`
	CourtID   int64     `json:"court_id"`
	CourtName string    `json:"court_name"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// QualityEventPayload reports malformed records skipped during one
// analytics computation.
type QualityEventPayload struct {
	OwnerID          int64  `json:"owner_id"`
	Query            string `json:"query"`
	UnresolvedCourt  int    `json:"unresolved_court"`
	IncompleteConfig int    `json:"incomplete_config"`
	InvalidRange     int    `json:"invalid_range"`
}

// ReportEventPayload announces a finished report file.
type ReportEventPayload struct {
	TaskID  string `json:"task_id"`
	OwnerID int64  `json:"owner_id"`
	Path    string `json:"path"`
}

// Event is a lightweight in-process domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event. Errors are the handler's own problem;
// the bus never unsubscribes or retries.
type Handler func(event *Event) error

// Bus provides synchronous in-process pub/sub.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish delivers the event to current subscribers, in order, on the
// caller's goroutine.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes it.
func (b *Bus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
