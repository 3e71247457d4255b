// Package metrics provides Prometheus metrics for the morsel sales service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name unless WithNamespace overrides it.
const DefaultNamespace = "morsel"

const subsystem = "sales"

// Manager manages all Prometheus metrics for the morsel service.
type Manager struct {
	namespace    string
	subsystem    string
	enabled      bool
	customLabels map[string]string
	registry     prometheus.Registerer

	// Ingestion Metrics
	ingestRowsAccepted prometheus.Counter
	ingestRowsSkipped  prometheus.Counter
	ingestSources      prometheus.Counter
	ingestFailures     *prometheus.CounterVec
	ingestDuration     prometheus.Histogram
	artifactWrites     prometheus.Counter

	// Repository Metrics
	datasetRecords         prometheus.Gauge
	queries                *prometheus.CounterVec
	repositoryQueryLatency prometheus.Histogram
	seriesLength           *prometheus.GaugeVec
	figureRenders          *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure replaces the global manager with one built from opts on a fresh
// registry, which GetRegistry returns from then on. Call it once at startup,
// before any handler captures the registry.
func Configure(opts ...Option) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
	return registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    DefaultNamespace,
		subsystem:    subsystem,
		enabled:      true,
		customLabels: make(map[string]string),
		registry:     prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     prometheus.DefBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	// Ingestion
	m.ingestRowsAccepted = auto.NewCounter(m.counterOpts(
		"ingest_rows_accepted_total", "Total number of target-product rows turned into sales records"))
	m.ingestRowsSkipped = auto.NewCounter(m.counterOpts(
		"ingest_rows_skipped_total", "Total number of rows skipped because the product did not match"))
	m.ingestSources = auto.NewCounter(m.counterOpts(
		"ingest_sources_total", "Total number of source files read to completion"))
	m.ingestFailures = auto.NewCounterVec(m.counterOpts(
		"ingest_failures_total", "Total number of aborted ingestion runs by failure kind"),
		[]string{"kind"})
	m.ingestDuration = auto.NewHistogram(m.histogramOpts(
		"ingest_duration_milliseconds", "Ingestion run duration in milliseconds"))
	m.artifactWrites = auto.NewCounter(m.counterOpts(
		"artifact_writes_total", "Total number of artifacts published"))

	// Repository
	m.datasetRecords = auto.NewGauge(m.gaugeOpts(
		"dataset_records", "Number of sales records held by the serving dataset"))
	m.queries = auto.NewCounterVec(m.counterOpts(
		"queries_total", "Total number of series queries by region filter"),
		[]string{"region"})
	m.repositoryQueryLatency = auto.NewHistogram(m.histogramOpts(
		"repository_query_latency_milliseconds", "Series query latency in milliseconds"))
	m.seriesLength = auto.NewGaugeVec(m.gaugeOpts(
		"series_length", "Number of daily points in the last series returned per region filter"),
		[]string{"region"})
	m.figureRenders = auto.NewCounterVec(m.counterOpts(
		"figure_renders_total", "Total number of chart figures rendered by region filter"),
		[]string{"region"})

	// HTTP
	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})

	// Errors
	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of operations that resulted in errors"),
		[]string{"component", "error_type"})

	// System
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	gc := m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds")
	gc.Buckets = []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
	m.systemGCPauseTime = auto.NewHistogram(gc)
}

// Ingestion Metrics Functions.

// RecordIngestRows adds the accepted and skipped row counts of a source.
func RecordIngestRows(accepted, skipped int) {
	if !globalManager.enabled {
		return
	}
	globalManager.ingestRowsAccepted.Add(float64(accepted))
	globalManager.ingestRowsSkipped.Add(float64(skipped))
}

// RecordIngestSource increments the sources read counter.
func RecordIngestSource() {
	if !globalManager.enabled {
		return
	}
	globalManager.ingestSources.Inc()
}

// RecordIngestFailure increments the failure counter for kind.
func RecordIngestFailure(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.ingestFailures.WithLabelValues(kind).Inc()
}

// RecordIngestDuration records an ingestion run duration in milliseconds.
func RecordIngestDuration(durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.ingestDuration.Observe(durationMs)
}

// RecordArtifactWrite increments the artifact publish counter.
func RecordArtifactWrite() {
	if !globalManager.enabled {
		return
	}
	globalManager.artifactWrites.Inc()
}

// Repository Metrics Functions.

// UpdateDatasetRecords sets the number of records held by the dataset.
func UpdateDatasetRecords(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetRecords.Set(float64(count))
}

// RecordQuery increments the query counter for a region filter.
func RecordQuery(region string) {
	if !globalManager.enabled {
		return
	}
	globalManager.queries.WithLabelValues(region).Inc()
}

// RecordRepositoryQueryLatency records series query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// UpdateSeriesLength sets the length of the last series returned for region.
func UpdateSeriesLength(region string, length int) {
	if !globalManager.enabled {
		return
	}
	globalManager.seriesLength.WithLabelValues(region).Set(float64(length))
}

// RecordFigureRender increments the figure render counter for region.
func RecordFigureRender(region string) {
	if !globalManager.enabled {
		return
	}
	globalManager.figureRenders.WithLabelValues(region).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
