// Package metrics provides Prometheus metrics for the carbonview service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Recompute engine
	recomputeTotal    prometheus.Counter
	recomputeErrors   *prometheus.CounterVec
	recomputeLatency  prometheus.Histogram
	viewRows          *prometheus.GaugeVec
	latestSeq         prometheus.Gauge
	snapshotHits      prometheus.Counter
	snapshotMisses    prometheus.Counter
	snapshotCacheSize prometheus.Gauge

	// Dataset ingestion
	datasetLoadLatency *prometheus.HistogramVec
	datasetLoadErrors  *prometheus.CounterVec
	rowsKept           *prometheus.GaugeVec
	rowsSkipped        *prometheus.CounterVec

	// Parameter change queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueTotal  prometheus.Counter
	queueDequeueTotal  prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "carbonview",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.recomputeTotal = m.counter("recompute_total", "Total number of successful view recomputations")
	m.recomputeErrors = m.counterVec("recompute_errors_total", "Failed view recomputations by error kind", "kind")
	m.recomputeLatency = m.histogram("recompute_latency_milliseconds", "View recomputation latency in milliseconds", m.histogramBuckets)
	m.viewRows = m.gaugeVec("view_rows", "Row count of the most recently computed view", "view")
	m.latestSeq = m.gauge("latest_view_seq", "Sequence number of the most recently published view set")
	m.snapshotHits = m.counter("snapshot_cache_hits_total", "Cross-sectional snapshot cache hits")
	m.snapshotMisses = m.counter("snapshot_cache_misses_total", "Cross-sectional snapshot cache misses")
	m.snapshotCacheSize = m.gauge("snapshot_cache_size", "Number of cached cross-sectional snapshots")

	m.datasetLoadLatency = m.histogramVec("dataset_load_latency_milliseconds", "Dataset load latency in milliseconds", "dataset")
	m.datasetLoadErrors = m.counterVec("dataset_load_errors_total", "Dataset load failures", "dataset")
	m.rowsKept = m.gaugeVec("dataset_rows", "Canonical rows kept per dataset", "dataset")
	m.rowsSkipped = m.counterVec("dataset_rows_skipped_total", "Raw rows skipped during normalization", "dataset", "reason")

	m.queueSize = m.gauge("param_queue_size", "Current number of queued parameter changes")
	m.queueCapacity = m.gauge("param_queue_capacity", "Parameter change queue capacity")
	m.queueEnqueueTotal = m.counter("param_queue_enqueue_total", "Parameter changes enqueued")
	m.queueDequeueTotal = m.counter("param_queue_dequeue_total", "Parameter changes dequeued")
	m.queueEnqueueErrors = m.counterVec("param_queue_enqueue_errors_total", "Rejected parameter changes by reason", "reason")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Enabled reports whether recording is on for the global manager.
func Enabled() bool { return globalManager.enabled }

// RecordRecompute records one successful recomputation and its latency.
func RecordRecompute(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.recomputeTotal.Inc()
	globalManager.recomputeLatency.Observe(latencyMs)
}

// RecordRecomputeError counts a failed recomputation by kind.
func RecordRecomputeError(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.recomputeErrors.WithLabelValues(kind).Inc()
}

// UpdateViewRows sets the row count of a derived view.
func UpdateViewRows(view string, rows int) {
	globalManager.viewRows.WithLabelValues(view).Set(float64(rows))
}

// UpdateLatestSeq sets the sequence of the last published view set.
func UpdateLatestSeq(seq uint64) {
	globalManager.latestSeq.Set(float64(seq))
}

// RecordSnapshotCacheHit counts a snapshot cache hit.
func RecordSnapshotCacheHit() { globalManager.snapshotHits.Inc() }

// RecordSnapshotCacheMiss counts a snapshot cache miss.
func RecordSnapshotCacheMiss() { globalManager.snapshotMisses.Inc() }

// UpdateSnapshotCacheSize sets the number of cached snapshots.
func UpdateSnapshotCacheSize(size int) {
	globalManager.snapshotCacheSize.Set(float64(size))
}

// RecordDatasetLoad records how long loading a dataset took.
func RecordDatasetLoad(dataset string, latencyMs float64) {
	globalManager.datasetLoadLatency.WithLabelValues(dataset).Observe(latencyMs)
}

// RecordDatasetLoadError counts a dataset load failure.
func RecordDatasetLoadError(dataset string) {
	globalManager.datasetLoadErrors.WithLabelValues(dataset).Inc()
}

// UpdateRowsKept sets the canonical row count for a dataset.
func UpdateRowsKept(dataset string, rows int) {
	globalManager.rowsKept.WithLabelValues(dataset).Set(float64(rows))
}

// RecordRowsSkipped adds n skipped raw rows for a dataset and reason.
func RecordRowsSkipped(dataset, reason string, n int) {
	if n <= 0 {
		return
	}
	globalManager.rowsSkipped.WithLabelValues(dataset, reason).Add(float64(n))
}

// UpdateQueueSize sets the current parameter queue length.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the parameter queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue counts an accepted parameter change.
func RecordQueueEnqueue() { globalManager.queueEnqueueTotal.Inc() }

// RecordQueueDequeue counts a parameter change handed to the worker.
func RecordQueueDequeue() { globalManager.queueDequeueTotal.Inc() }

// RecordQueueEnqueueError counts a rejected parameter change.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an error response for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
