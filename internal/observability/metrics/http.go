package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	queriesTotal       *prometheus.CounterVec
	queryDuration      *prometheus.HistogramVec
	queryScore         *prometheus.HistogramVec
	cacheHitsTotal     *prometheus.CounterVec
	handEvalsTotal     *prometheus.CounterVec
	exportsTotal       *prometheus.CounterVec
	rateLimitedTotal   *prometheus.CounterVec
	publishErrorsTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sofiene",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sofiene",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sofiene",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sofiene",
			Subsystem: "pipeline",
			Name:      "queries_total",
			Help:      "Total answered queries by resolution stage and language.",
		},
		[]string{"service", "stage", "language"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sofiene",
			Subsystem: "pipeline",
			Name:      "query_duration_seconds",
			Help:      "End-to-end query resolution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "stage"},
	)
	queryScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sofiene",
			Subsystem: "pipeline",
			Name:      "query_score",
			Help:      "Distribution of confidence scores for answered queries.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service", "stage"},
	)
	cacheHitsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sofiene",
			Subsystem: "pipeline",
			Name:      "cache_hits_total",
			Help:      "Total queries answered from the reply cache.",
		},
		[]string{"service", "language"},
	)
	handEvalsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sofiene",
			Subsystem: "pipeline",
			Name:      "hand_evaluations_total",
			Help:      "Total hand evaluation requests by language.",
		},
		[]string{"service", "language"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sofiene",
			Subsystem: "http",
			Name:      "transcript_exports_total",
			Help:      "Total conversation transcript exports by status.",
		},
		[]string{"service", "status"},
	)
	rateLimitedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sofiene",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total requests rejected by the rate limiter.",
		},
		[]string{"service"},
	)
	publishErrorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sofiene",
			Subsystem: "events",
			Name:      "publish_errors_total",
			Help:      "Total failed query event publications.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		queriesTotal,
		queryDuration,
		queryScore,
		cacheHitsTotal,
		handEvalsTotal,
		exportsTotal,
		rateLimitedTotal,
		publishErrorsTotal,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		queriesTotal:       queriesTotal,
		queryDuration:      queryDuration,
		queryScore:         queryScore,
		cacheHitsTotal:     cacheHitsTotal,
		handEvalsTotal:     handEvalsTotal,
		exportsTotal:       exportsTotal,
		rateLimitedTotal:   rateLimitedTotal,
		publishErrorsTotal: publishErrorsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/conversations/"):
		return "/v1/conversations/{conversation_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordQuery(service, stage, language string, score float64, duration time.Duration) {
	if stage == "" {
		stage = "unknown"
	}
	m.queriesTotal.WithLabelValues(service, stage, language).Inc()
	m.queryDuration.WithLabelValues(service, stage).Observe(duration.Seconds())
	m.queryScore.WithLabelValues(service, stage).Observe(score)
}

func (m *HTTPServerMetrics) RecordCacheHit(service, language string) {
	m.cacheHitsTotal.WithLabelValues(service, language).Inc()
}

func (m *HTTPServerMetrics) RecordHandEvaluation(service, language string) {
	m.handEvalsTotal.WithLabelValues(service, language).Inc()
}

func (m *HTTPServerMetrics) RecordExport(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.exportsTotal.WithLabelValues(service, status).Inc()
}

func (m *HTTPServerMetrics) RecordRateLimited(service string) {
	m.rateLimitedTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordPublishError(service string) {
	m.publishErrorsTotal.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
