// Package metrics provides Prometheus metrics for the readiness service.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the readiness service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Engine metrics
	assessments       *prometheus.CounterVec
	assessmentLatency prometheus.Histogram
	assessmentErrors  prometheus.Counter
	reportsIngested   *prometheus.CounterVec

	// Triage batch metrics
	triageBatches       prometheus.Counter
	triageBatchSize     prometheus.Gauge
	triageBatchDuration prometheus.Histogram
	triageBySeverity    *prometheus.GaugeVec
	scheduledRuns       *prometheus.CounterVec

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Storage and cache metrics
	storeLatency  *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec

	// System metrics
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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "readiness",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.enabled {
		// Disabled managers still work but register on a private registry nobody scrapes.
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

// RefreshInterval is how often periodic gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// RefreshInterval returns the global manager's refresh interval.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.assessments = m.counterVec("assessments_total", "Readiness assessments by severity and color", "severity", "color")
	m.assessmentLatency = m.histogram("assessment_latency_milliseconds", "Time to fetch and assess one athlete-day")
	m.assessmentErrors = m.counter("assessment_errors_total", "Assessments that failed to load their input")
	m.reportsIngested = m.counterVec("reports_ingested_total", "Reports accepted by kind", "kind")

	m.triageBatches = m.counter("triage_batches_total", "Triage batches computed")
	m.triageBatchSize = m.gauge("triage_batch_size", "Athletes in the last triage batch")
	m.triageBatchDuration = m.histogram("triage_batch_duration_milliseconds", "Duration of a full triage batch")
	m.triageBySeverity = m.gaugeVec("triage_athletes", "Athletes per severity in the last triage batch", "severity")
	m.scheduledRuns = m.counterVec("scheduled_runs_total", "Scheduled triage runs by outcome", "status")

	m.queueSize = m.gauge("queue_size", "Current number of queued assessment tasks")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the assessment task queue")
	m.queueUtilization = m.gauge("queue_utilization", "Queue fill ratio (0-1)")
	m.queueEnqueues = m.counter("queue_enqueue_total", "Tasks enqueued")
	m.queueDequeues = m.counter("queue_dequeue_total", "Tasks dequeued")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Rejected enqueues by reason", "reason")

	m.workerCount = m.gauge("worker_count", "Assessment workers running")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Worker time per task")
	m.workerErrors = m.counter("worker_errors_total", "Tasks that completed with an error")

	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Storage operation latency", "op")
	m.storeErrors = m.counterVec("store_errors_total", "Storage operation failures", "op")
	m.cacheRequests = m.counterVec("cache_requests_total", "Triage cache lookups by result", "result")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Allocated heap bytes")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause")
}

// Engine.

// RecordAssessment counts one assessment outcome.
func RecordAssessment(severity, color string) {
	globalManager.assessments.WithLabelValues(severity, color).Inc()
}

// RecordAssessmentLatency records the time spent on one athlete-day.
func RecordAssessmentLatency(latencyMs float64) {
	globalManager.assessmentLatency.Observe(latencyMs)
}

// RecordAssessmentError counts a failed assessment.
func RecordAssessmentError() {
	globalManager.assessmentErrors.Inc()
}

// RecordReportIngested counts an accepted report of kind (wellness, load).
func RecordReportIngested(kind string) {
	globalManager.reportsIngested.WithLabelValues(kind).Inc()
}

// Triage.

// RecordTriageBatch records a finished triage batch.
func RecordTriageBatch(size int, durationMs float64, bySeverity map[string]int) {
	globalManager.triageBatches.Inc()
	globalManager.triageBatchSize.Set(float64(size))
	globalManager.triageBatchDuration.Observe(durationMs)
	for sev, n := range bySeverity {
		globalManager.triageBySeverity.WithLabelValues(sev).Set(float64(n))
	}
}

// RecordScheduledRun counts a scheduled run by status (ok, error).
func RecordScheduledRun(status string) {
	globalManager.scheduledRuns.WithLabelValues(status).Inc()
}

// Queue.

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an enqueued task.
func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue counts a dequeued task.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// Workers.

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker time per task.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a task that failed.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Storage and cache.

// RecordStoreLatency records the latency of a storage operation.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed storage operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordCacheRequest counts a cache lookup by result (hit, miss, error).
func RecordCacheRequest(result string) {
	globalManager.cacheRequests.WithLabelValues(result).Inc()
}

// HTTP.

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors.

// RecordErrorByComponent counts an error raised by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry all global metrics live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Value sums the current value of every series of the named metric family on
// the global registry whose labels include match. Counters, gauges and the
// sample count of histograms are supported.
func Value(name string, match map[string]string) (float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrObserveFailed, err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range mf.GetMetric() {
			if !labelsMatch(metric.GetLabel(), match) {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				total += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				total += metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				total += float64(metric.GetHistogram().GetSampleCount())
			}
		}
		return total, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrMetricNotFound, name)
}

func labelsMatch(pairs []*dto.LabelPair, match map[string]string) bool {
	for k, v := range match {
		found := false
		for _, p := range pairs {
			if p.GetName() == k && p.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
