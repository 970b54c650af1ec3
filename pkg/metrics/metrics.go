// Package metrics provides Prometheus metrics for the MERLIN planner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure reason labels used by RecordDayFailure.
const (
	ReasonTransport       = "transport"
	ReasonMalformedJSON   = "malformed_json"
	ReasonSchemaViolation = "schema_violation"
	ReasonTimeout         = "timeout"
	ReasonCanceled        = "canceled"
)

// Manager owns all Prometheus instruments for the planner.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Dispatcher metrics
	daysDispatched   prometheus.Counter
	dayFailures      *prometheus.CounterVec
	optimizeDuration prometheus.Histogram
	eventsIn         prometheus.Counter
	eventsOut        prometheus.Counter

	// Generator metrics
	generatorRequests prometheus.Counter
	generatorLatency  prometheus.Histogram
	generatorInFlight prometheus.Gauge
	streamFragments   prometheus.Counter

	// Session metrics
	activeSessions prometheus.Gauge
}

// Global manager and its registry; the cmd exposes this registry over
// promhttp.
var globalManager *Manager                     //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry()  //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "merlin",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initialize()
	return m
}

func (m *Manager) initialize() {
	factory := promauto.With(m.registry)

	m.daysDispatched = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "dispatcher",
		Name:      "days_dispatched_total",
		Help:      "Day batches successfully optimized.",
	})
	m.dayFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "dispatcher",
		Name:      "day_failures_total",
		Help:      "Day batches that degraded to empty, by reason.",
	}, []string{"reason"})
	m.optimizeDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "dispatcher",
		Name:      "optimize_week_duration_seconds",
		Help:      "Wall time of a full week optimization.",
		Buckets:   m.histogramBuckets,
	})
	m.eventsIn = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "dispatcher",
		Name:      "events_in_total",
		Help:      "Events received for optimization.",
	})
	m.eventsOut = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "dispatcher",
		Name:      "events_out_total",
		Help:      "Events returned after optimization.",
	})

	m.generatorRequests = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "generator",
		Name:      "requests_total",
		Help:      "Requests issued to the generator backend.",
	})
	m.generatorLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "generator",
		Name:      "request_duration_seconds",
		Help:      "Latency of non-streaming generator requests.",
		Buckets:   m.histogramBuckets,
	})
	m.generatorInFlight = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "generator",
		Name:      "in_flight_requests",
		Help:      "Generator requests currently in flight.",
	})
	m.streamFragments = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "generator",
		Name:      "stream_fragments_total",
		Help:      "Text fragments delivered on streaming responses.",
	})

	m.activeSessions = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "session",
		Name:      "active_sessions",
		Help:      "Prompt sessions currently held in the store.",
	})
}

// Registry returns the registry backing the global manager, for
// exposition via promhttp.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

func RecordDayDispatched() {
	if globalManager.enabled {
		globalManager.daysDispatched.Inc()
	}
}

func RecordDayFailure(reason string) {
	if globalManager.enabled {
		globalManager.dayFailures.WithLabelValues(reason).Inc()
	}
}

func ObserveOptimizeDuration(seconds float64) {
	if globalManager.enabled {
		globalManager.optimizeDuration.Observe(seconds)
	}
}

func AddEventsIn(n int) {
	if globalManager.enabled {
		globalManager.eventsIn.Add(float64(n))
	}
}

func AddEventsOut(n int) {
	if globalManager.enabled {
		globalManager.eventsOut.Add(float64(n))
	}
}

func RecordGeneratorRequest() {
	if globalManager.enabled {
		globalManager.generatorRequests.Inc()
	}
}

func ObserveGeneratorLatency(seconds float64) {
	if globalManager.enabled {
		globalManager.generatorLatency.Observe(seconds)
	}
}

func IncGeneratorInFlight() {
	if globalManager.enabled {
		globalManager.generatorInFlight.Inc()
	}
}

func DecGeneratorInFlight() {
	if globalManager.enabled {
		globalManager.generatorInFlight.Dec()
	}
}

func RecordStreamFragment() {
	if globalManager.enabled {
		globalManager.streamFragments.Inc()
	}
}

func UpdateActiveSessions(n int) {
	if globalManager.enabled {
		globalManager.activeSessions.Set(float64(n))
	}
}
