package service

import (
	"database/sql"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/edu-content-forge/internal/llm"
	"github.com/noah-isme/edu-content-forge/internal/models"
)

// Pipeline outcome labels.
const (
	OutcomeGenerated = "generated"
	OutcomeFailed    = "failed"
	OutcomePanicked  = "panicked"
	OutcomeSkipped   = "skipped"
)

// MetricsService owns the Prometheus registry and the collectors every component reports into.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	llmRequests     *prometheus.CounterVec
	llmDuration     *prometheus.HistogramVec
	pipelineRuns    *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	recomputes      *prometheus.CounterVec

	llmAttempts    uint64
	llmFailures    uint64
	productsDone   uint64
	productsFailed uint64
	cacheHitCount  uint64
	cacheMissCount uint64
	recomputeCount uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	llmRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_requests_total",
		Help: "Model endpoint attempts by outcome",
	}, []string{"outcome"})

	llmDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Duration of single model endpoint attempts",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
	}, []string{"outcome"})

	pipelineRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_runs_total",
		Help: "Product pipeline runs by outcome",
	}, []string{"outcome"})

	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
	}, []string{"stage"})

	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_progress_recomputes_total",
		Help: "Job progress recomputes by resulting status",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHits, cacheMisses,
		llmRequests, llmDuration, pipelineRuns, stageDuration, recomputes, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		llmRequests:     llmRequests,
		llmDuration:     llmDuration,
		pipelineRuns:    pipelineRuns,
		stageDuration:   stageDuration,
		recomputes:      recomputes,
	}
}

// RegisterDBStats exports connection pool statistics of db.
func (m *MetricsService) RegisterDBStats(db *sql.DB, name string) error {
	if m == nil || db == nil {
		return nil
	}
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
		return
	}
	m.cacheMisses.Inc()
	atomic.AddUint64(&m.cacheMissCount, 1)
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveLLMRequest records one model endpoint attempt.
func (m *MetricsService) ObserveLLMRequest(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(outcome).Inc()
	m.llmDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	atomic.AddUint64(&m.llmAttempts, 1)
	if outcome != llm.OutcomeSuccess {
		atomic.AddUint64(&m.llmFailures, 1)
	}
}

// ObservePipelineRun records the outcome of one product pipeline.
func (m *MetricsService) ObservePipelineRun(outcome string) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(outcome).Inc()
	switch outcome {
	case OutcomeGenerated:
		atomic.AddUint64(&m.productsDone, 1)
	case OutcomeFailed, OutcomePanicked:
		atomic.AddUint64(&m.productsFailed, 1)
	}
}

// ObserveStage records how long a pipeline stage took.
func (m *MetricsService) ObserveStage(stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// ObserveRecompute counts a job progress recompute.
func (m *MetricsService) ObserveRecompute(status models.JobStatus) {
	if m == nil {
		return
	}
	m.recomputes.WithLabelValues(string(status)).Inc()
	atomic.AddUint64(&m.recomputeCount, 1)
}

// Snapshot returns process-lifetime pipeline totals.
func (m *MetricsService) Snapshot() models.PipelineStats {
	if m == nil {
		return models.PipelineStats{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	var ratio float64
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	return models.PipelineStats{
		ModelAttempts:     atomic.LoadUint64(&m.llmAttempts),
		ModelFailures:     atomic.LoadUint64(&m.llmFailures),
		ProductsGenerated: atomic.LoadUint64(&m.productsDone),
		ProductsFailed:    atomic.LoadUint64(&m.productsFailed),
		Recomputes:        atomic.LoadUint64(&m.recomputeCount),
		CacheHitRatio:     ratio,
		Goroutines:        runtime.NumGoroutine(),
		GeneratedAt:       time.Now().UTC(),
	}
}
