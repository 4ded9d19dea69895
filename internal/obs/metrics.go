// Package obs exposes prometheus metrics for the HTTP surface and the entity workflows.
package obs

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workflow outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics owns a registry so tests and multiple servers do not collide on the default one.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	workflowsTotal      *prometheus.CounterVec
	buildInfo           *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		workflowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_workflows_total",
				Help: "Entity workflows by name and outcome.",
			},
			[]string{"workflow", "outcome"},
		),
		buildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "build_info",
				Help: "Back office build information.",
			},
			[]string{"version"},
		),
	}
	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.workflowsTotal,
		m.buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) SetBuildInfo(version string) {
	if m == nil {
		return
	}
	m.buildInfo.WithLabelValues(version).Set(1)
}

// RequestStarted increments the in-flight gauge and returns the function that
// records the finished request.
func (m *Metrics) RequestStarted() func(method, path string, status int) {
	if m == nil {
		return func(string, string, int) {}
	}
	m.httpInFlight.Inc()
	start := time.Now()
	return func(method, path string, status int) {
		code := strconv.Itoa(status)
		m.httpRequestDuration.WithLabelValues(method, path, code).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(method, path, code).Inc()
		m.httpInFlight.Dec()
	}
}

// Workflow counts one run of workflow, classifying err into an outcome.
func (m *Metrics) Workflow(workflow string, err error) {
	if m == nil {
		return
	}
	m.workflowsTotal.WithLabelValues(workflow, Outcome(err)).Inc()
}

// Outcome classifies a workflow result.
func Outcome(err error) string {
	var appErr *apperr.AppError
	switch {
	case err == nil:
		return OutcomeSuccess
	case !errors.As(err, &appErr):
		return OutcomeError
	case appErr.Type == apperr.ErrorTypeValidation:
		return OutcomeInvalid
	case appErr.Type == apperr.ErrorTypeConflict:
		return OutcomeConflict
	case appErr.Type == apperr.ErrorTypeNotFound:
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
