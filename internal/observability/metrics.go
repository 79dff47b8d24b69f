package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. It implements the
// pipeline observer used by the orchestrator.
type Metrics struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	runs          *prometheus.CounterVec
	matchRate     *prometheus.GaugeVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

type MetricsOption func(*Metrics)

func WithMetricsNamespace(namespace string) MetricsOption {
	return func(m *Metrics) {
		m.namespace = namespace
	}
}

func WithDurationBuckets(buckets []float64) MetricsOption {
	return func(m *Metrics) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry registers collectors on registry instead of a fresh one that
// also carries the Go runtime and process collectors.
func WithRegistry(registry *prometheus.Registry) MetricsOption {
	return func(m *Metrics) {
		if registry != nil {
			m.registry = registry
		}
	}
}

func NewMetrics(opts ...MetricsOption) *Metrics {
	m := &Metrics{
		buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(m.registry)
	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Duration of pipeline stages.",
		Buckets:   m.buckets,
	}, []string{"stage"})
	m.stageFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pipeline_stage_failures_total",
		Help:      "Pipeline stages that ended unsuccessfully.",
	}, []string{"stage"})
	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pipeline_runs_total",
		Help:      "Pipeline runs by outcome.",
	}, []string{"outcome"})
	m.matchRate = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "pipeline_match_rate",
		Help:      "Share of fantasy riders matched in the latest successful run.",
	}, []string{"race"})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})
	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   m.buckets,
	}, []string{"route", "method"})

	return m
}

func (m *Metrics) ObserveStage(stage string, duration time.Duration, success bool) {
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if !success {
		m.stageFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveRun counts the run. The match rate gauge only moves on success so a
// failed run does not hide the last good value.
func (m *Metrics) ObserveRun(raceKey string, success bool, matchRate float64) {
	outcome := "failure"
	if success {
		outcome = "success"
		m.matchRate.WithLabelValues(raceKey).Set(matchRate)
	}
	m.runs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
