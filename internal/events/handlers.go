package events

import (
	"courtpulse/internal/metrics"

	"github.com/rs/zerolog"
)

// AllEventTypes lists every event type the services publish.
var AllEventTypes = []string{
	EventBookingCreated,
	EventBookingStatusChanged,
	EventCourtDeactivated,
	EventDataQuality,
	EventReportReady,
}

// MetricsHandler returns a handler that counts consumed events and
// writes a debug line per event.
func MetricsHandler(logger *zerolog.Logger) Handler {
	return func(event *Event) error {
		metrics.IncEvent(event.Type)
		if logger != nil {
			logger.Debug().
				Str("event_type", event.Type).
				RawJSON("payload", event.Payload).
				Msg("event consumed")
		}
		return nil
	}
}

// RegisterDefaultHandlers subscribes the metrics handler to every known
// event type, so published events always have at least one consumer.
func RegisterDefaultHandlers(bus *Bus, logger *zerolog.Logger) {
	handler := MetricsHandler(logger)
	for _, eventType := range AllEventTypes {
		bus.Subscribe(eventType, handler)
	}
}
