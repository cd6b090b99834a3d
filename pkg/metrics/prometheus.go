// Package metrics provides Prometheus metrics for the benchmark frontier pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
	recordsLoaded    *prometheus.CounterVec
	diagnostics      *prometheus.CounterVec
	frontierPoints   *prometheus.GaugeVec
	sotaScore        *prometheus.GaugeVec
	renderDuration   *prometheus.HistogramVec
	artifactsWritten prometheus.Counter

	// Source metrics
	fetchTotal   *prometheus.CounterVec
	fetchLatency prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "medbench",
		subsystem:        "frontier",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of pipeline runs by outcome",
	}, []string{"outcome"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Duration of a full load/extract/render run in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.recordsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_loaded_total",
		Help:      "Valid score records loaded per benchmark",
	}, []string{"benchmark"})

	m.diagnostics = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "diagnostics_total",
		Help:      "Diagnostics raised per benchmark and kind",
	}, []string{"benchmark", "kind"})

	m.frontierPoints = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "points",
		Help:      "Number of frontier points in the latest run",
	}, []string{"benchmark"})

	m.sotaScore = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sota_score_percent",
		Help:      "Current state-of-the-art score in percent",
	}, []string{"benchmark"})

	m.renderDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_duration_milliseconds",
		Help:      "Artifact render duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"format"})

	m.artifactsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "artifacts_written_total",
		Help:      "Total number of chart artifacts written to disk",
	})

	m.fetchTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_total",
		Help:      "Remote source fetches by result (live, cache, stale, failed)",
	}, []string{"result"})

	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_latency_milliseconds",
		Help:      "Remote source fetch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})
}

// RecordRun counts a finished run and observes its duration.
func RecordRun(outcome string, durationMs float64) {
	globalManager.runsTotal.WithLabelValues(outcome).Inc()
	globalManager.runDuration.Observe(durationMs)
}

// RecordRecordsLoaded adds n valid records for a benchmark.
func RecordRecordsLoaded(benchmark string, n int) {
	globalManager.recordsLoaded.WithLabelValues(benchmark).Add(float64(n))
}

// RecordDiagnostic counts one diagnostic.
func RecordDiagnostic(benchmark, kind string) {
	globalManager.diagnostics.WithLabelValues(benchmark, kind).Inc()
}

// UpdateFrontier sets the frontier size and SOTA score for a benchmark.
func UpdateFrontier(benchmark string, points int, sotaPercent float64) {
	globalManager.frontierPoints.WithLabelValues(benchmark).Set(float64(points))
	globalManager.sotaScore.WithLabelValues(benchmark).Set(sotaPercent)
}

// RecordRender observes how long rendering one artifact format took.
func RecordRender(format string, durationMs float64) {
	globalManager.renderDuration.WithLabelValues(format).Observe(durationMs)
}

// RecordArtifactWritten increments the written artifacts counter.
func RecordArtifactWritten() {
	globalManager.artifactsWritten.Inc()
}

// RecordFetch counts a remote fetch by result.
func RecordFetch(result string) {
	globalManager.fetchTotal.WithLabelValues(result).Inc()
}

// RecordFetchLatency records fetch latency in milliseconds.
func RecordFetchLatency(latencyMs float64) {
	globalManager.fetchLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
