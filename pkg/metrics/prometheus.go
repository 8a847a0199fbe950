// Package metrics provides Prometheus metrics for the optimal-score service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Calculator
	calculations        *prometheus.CounterVec
	calculationDuration *prometheus.HistogramVec
	searchNodes         prometheus.Histogram
	memoHits            prometheus.Counter
	prunedBranches      prometheus.Counter
	deferralBranches    prometheus.Counter
	calculationFallback *prometheus.CounterVec
	scoreImprovement    prometheus.Histogram

	// Result cache
	resultCacheHits   prometheus.Counter
	resultCacheMisses prometheus.Counter
	resultCacheErrors *prometheus.CounterVec

	// Queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueDequeued    prometheus.Counter
	queueRejected    *prometheus.CounterVec
	queueWaitLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerBusy              prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "statstack",
		subsystem:      "optimal_score",
		latencyBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.calculations = auto.NewCounterVec(m.counterOpts("calculations_total",
		"Completed calculations by challenge and result type"), []string{"challenge", "result_type"})
	m.calculationDuration = auto.NewHistogramVec(m.histogramOpts("calculation_duration_milliseconds",
		"Wall-clock duration of greedy plus optimizer", m.latencyBuckets), []string{"challenge"})
	m.searchNodes = auto.NewHistogram(m.histogramOpts("search_nodes",
		"Recursive calls made by the branch-and-bound search per calculation",
		prometheus.ExponentialBuckets(10, 10, 8)))
	m.memoHits = auto.NewCounter(m.counterOpts("memo_hits_total", "Memoization cache hits"))
	m.prunedBranches = auto.NewCounter(m.counterOpts("pruned_branches_total", "Branches cut by the upper bound"))
	m.deferralBranches = auto.NewCounter(m.counterOpts("deferral_branches_total", "Skip branches explored for primed players"))
	m.calculationFallback = auto.NewCounterVec(m.counterOpts("calculation_fallbacks_total",
		"Calculations answered with the zero-score fallback"), []string{"reason"})
	m.scoreImprovement = auto.NewHistogram(m.histogramOpts("score_improvement",
		"Optimized score minus greedy score for optimized results",
		[]float64{1, 2, 5, 10, 20, 50, 100}))

	m.resultCacheHits = auto.NewCounter(m.counterOpts("result_cache_hits_total", "Result cache hits"))
	m.resultCacheMisses = auto.NewCounter(m.counterOpts("result_cache_misses_total", "Result cache misses"))
	m.resultCacheErrors = auto.NewCounterVec(m.counterOpts("result_cache_errors_total",
		"Result cache failures by operation"), []string{"op"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Jobs waiting in the calculation queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum calculation queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Jobs dequeued"))
	m.queueRejected = auto.NewCounterVec(m.counterOpts("queue_rejected_total",
		"Jobs rejected by the queue"), []string{"reason"})
	m.queueWaitLatency = auto.NewHistogram(m.histogramOpts("queue_wait_milliseconds",
		"Time a job spent queued before a worker picked it up", m.latencyBuckets))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured calculation workers"))
	m.workerBusy = auto.NewGauge(m.gaugeOpts("worker_busy", "Workers currently running a calculation"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_milliseconds",
		"Time a worker spent on one job", m.latencyBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Jobs that failed inside a worker"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.latencyBuckets), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"HTTP errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"Average GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}))
}

// Calculator metrics.

// RecordCalculation records one finished calculation.
func RecordCalculation(challenge, resultType string, durationMs float64) {
	globalManager.calculations.WithLabelValues(challenge, resultType).Inc()
	globalManager.calculationDuration.WithLabelValues(challenge).Observe(durationMs)
}

// RecordSearch records the branch-and-bound counters of one calculation.
func RecordSearch(nodes, memoHits, pruned, deferrals int64) {
	globalManager.searchNodes.Observe(float64(nodes))
	globalManager.memoHits.Add(float64(memoHits))
	globalManager.prunedBranches.Add(float64(pruned))
	globalManager.deferralBranches.Add(float64(deferrals))
}

// RecordScoreImprovement records how far the optimizer beat the greedy baseline.
func RecordScoreImprovement(delta float64) {
	globalManager.scoreImprovement.Observe(delta)
}

// RecordCalculationFallback counts a zero-score fallback answer.
func RecordCalculationFallback(reason string) {
	globalManager.calculationFallback.WithLabelValues(reason).Inc()
}

// Result cache metrics.

// RecordResultCacheHit increments the result cache hit counter.
func RecordResultCacheHit() { globalManager.resultCacheHits.Inc() }

// RecordResultCacheMiss increments the result cache miss counter.
func RecordResultCacheMiss() { globalManager.resultCacheMisses.Inc() }

// RecordResultCacheError counts a failed cache operation ("get" or "set").
func RecordResultCacheError(op string) { globalManager.resultCacheErrors.WithLabelValues(op).Inc() }

// Queue metrics.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueRejected counts a rejected enqueue.
func RecordQueueRejected(reason string) { globalManager.queueRejected.WithLabelValues(reason).Inc() }

// RecordQueueWait records how long a job waited in the queue.
func RecordQueueWait(latencyMs float64) { globalManager.queueWaitLatency.Observe(latencyMs) }

// Worker metrics.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// AddWorkerBusy moves the busy-worker gauge by delta.
func AddWorkerBusy(delta int) { globalManager.workerBusy.Add(float64(delta)) }

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an HTTP error.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
