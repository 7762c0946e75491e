package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	analyticsQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "analytics_queries_total",
			Help:      "Analytics queries by kind.",
		},
		[]string{"query"},
	)

	qualityEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "data_quality_events_total",
			Help:      "Records dropped or zero-priced during aggregation.",
		},
		[]string{"kind"},
	)

	reportsBuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "reports_built_total",
			Help:      "Revenue reports rendered by the export worker.",
		},
	)

	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtpulse",
			Name:      "events_consumed_total",
			Help:      "Domain events delivered to bus subscribers.",
		},
		[]string{"event"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, analyticsQueries, qualityEvents, reportsBuilt, eventsConsumed)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncQuery increments the counter for an analytics query kind.
func IncQuery(query string) {
	analyticsQueries.WithLabelValues(query).Inc()
}

// AddQuality records n data-quality incidents of the given kind.
func AddQuality(kind string, n int) {
	if n <= 0 {
		return
	}
	qualityEvents.WithLabelValues(kind).Add(float64(n))
}

// IncReport increments the rendered-reports counter.
func IncReport() {
	reportsBuilt.Inc()
}

// IncEvent increments the consumed counter for a domain event type.
func IncEvent(event string) {
	eventsConsumed.WithLabelValues(event).Inc()
}
