// Package metrics provides Prometheus metrics for the tee-time assignment
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns every metric the service records.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Command metrics - the engine's operations
	commandsTotal   *prometheus.CounterVec // command, outcome
	commandDuration *prometheus.HistogramVec

	// Edge metrics
	edgesAdded   prometheus.Counter
	edgesRemoved prometheus.Counter

	// Failure and reconciliation metrics
	validationRejected *prometheus.CounterVec // kind
	storeFailures      prometheus.Counter
	reloadsTotal       prometheus.Counter
	staleDetected      prometheus.Counter

	// State gauges
	trackedEdges        prometheus.Gauge
	trackedParticipants prometheus.Gauge
	trackedSlots        prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec // endpoint, method, status
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a manager and registers all metrics, applying options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "singsing",
		subsystem:        "teetime",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "commands_total", Help: "Assignment commands by command and outcome.",
	}, []string{"command", "outcome"})
	m.commandDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "command_duration_seconds", Help: "Assignment command latency.",
		Buckets: m.histogramBuckets,
	}, []string{"command"})
	m.edgesAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "edges_added_total", Help: "Assignment edges created.",
	})
	m.edgesRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "edges_removed_total", Help: "Assignment edges removed.",
	})
	m.validationRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "validation_rejected_total", Help: "Commands rejected by validation, by kind.",
	}, []string{"kind"})
	m.storeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_failures_total", Help: "Store primitives that failed after validation.",
	})
	m.reloadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "reloads_total", Help: "Full ledger reloads from the store.",
	})
	m.staleDetected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "stale_state_total", Help: "Reloads that revealed foreign writes.",
	})
	m.trackedEdges = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "edges", Help: "Edges currently in the ledger.",
	})
	m.trackedParticipants = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "participants", Help: "Participants on the roster.",
	})
	m.trackedSlots = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "slots", Help: "Slots in the catalog.",
	})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total", Help: "HTTP requests by endpoint, method, status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_seconds", Help: "HTTP request latency.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.registry.MustRegister(
		m.commandsTotal, m.commandDuration,
		m.edgesAdded, m.edgesRemoved,
		m.validationRejected, m.storeFailures, m.reloadsTotal, m.staleDetected,
		m.trackedEdges, m.trackedParticipants, m.trackedSlots,
		m.httpRequests, m.httpRequestDuration,
	)
	return m
}

// Global manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Init installs the global manager.
func Init(opts ...Option) {
	globalManager = NewManager(opts...)
}

func get() *Manager {
	if globalManager == nil {
		Init()
	}
	return globalManager
}

// GetRegistry returns the registry backing the global manager, for
// serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return get().registry
}

// Package-level recording helpers mirror the manager's metric set.

func RecordCommand(command, outcome string) {
	get().commandsTotal.WithLabelValues(command, outcome).Inc()
}

func ObserveCommandDuration(command string, seconds float64) {
	get().commandDuration.WithLabelValues(command).Observe(seconds)
}

func RecordEdgesAdded(n int) {
	get().edgesAdded.Add(float64(n))
}

func RecordEdgesRemoved(n int) {
	get().edgesRemoved.Add(float64(n))
}

func RecordValidationRejected(kind string) {
	get().validationRejected.WithLabelValues(kind).Inc()
}

func RecordStoreFailure() {
	get().storeFailures.Inc()
}

func RecordReload() {
	get().reloadsTotal.Inc()
}

func RecordStaleState() {
	get().staleDetected.Inc()
}

func UpdateTrackedEdges(n int) {
	get().trackedEdges.Set(float64(n))
}

func UpdateTrackedParticipants(n int) {
	get().trackedParticipants.Set(float64(n))
}

func UpdateTrackedSlots(n int) {
	get().trackedSlots.Set(float64(n))
}

func RecordHTTPRequest(endpoint, method, status string) {
	get().httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func ObserveHTTPRequestDuration(endpoint, method string, seconds float64) {
	get().httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
}
