// Package metrics exposes the portal's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "linkcondo"

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Metrics holds the portal's collectors. A nil *Metrics records nothing.
type Metrics struct {
	RequestDuration   *prometheus.HistogramVec
	MagicLinkRequests *prometheus.CounterVec
	UpstreamDuration  *prometheus.HistogramVec
	ContactImports    *prometheus.CounterVec
	ContactsImported  prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		MagicLinkRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "magic_link",
			Name:      "requests_total",
			Help:      "Magic link requests by action and outcome.",
		}, []string{"acao", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "superlogica",
			Name:      "request_duration_seconds",
			Help:      "Duration of Superlógica API calls in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint", "status_code"}),
		ContactImports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contacts",
			Name:      "imports_total",
			Help:      "CSV contact imports by outcome.",
		}, []string{"outcome"}),
		ContactsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contacts",
			Name:      "imported_rows_total",
			Help:      "Legal contacts written by CSV imports.",
		}),
	}

	reg.MustRegister(m.RequestDuration, m.MagicLinkRequests, m.UpstreamDuration, m.ContactImports, m.ContactsImported)
	return m
}

// Magic link outcomes.
const (
	OutcomeSent     = "sent"
	OutcomeNoMatch  = "no_match"
	OutcomeFailed   = "failed"
	OutcomeImported = "imported"
	OutcomeRejected = "rejected"
)

// MagicLinkRequested counts a magic link request by outcome.
func (m *Metrics) MagicLinkRequested(acao, outcome string) {
	if m == nil {
		return
	}
	m.MagicLinkRequests.WithLabelValues(acao, outcome).Inc()
}

// ObserveUpstream records a Superlógica call. status 0 means a network failure.
func (m *Metrics) ObserveUpstream(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ContactImport records a CSV import and the rows it wrote.
func (m *Metrics) ContactImport(outcome string, rows int) {
	if m == nil {
		return
	}
	m.ContactImports.WithLabelValues(outcome).Inc()
	if rows > 0 {
		m.ContactsImported.Add(float64(rows))
	}
}

// Middleware records request durations by route template.
// /metrics itself is skipped.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil || c.Path() == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
				status = he.Code
			}
			m.RequestDuration.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
