// Package observability exposes Prometheus metrics for the HTTP API and the
// business events reported by the service layer.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// Metrics holds every collector registered by the server.
type Metrics struct {
	registry prometheus.Gatherer

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	registrations  *prometheus.CounterVec
	logins         *prometheus.CounterVec
	slugCollisions *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipebook_registrations_total",
				Help: "Total number of registration attempts.",
			},
			[]string{"result"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipebook_logins_total",
				Help: "Total number of login attempts.",
			},
			[]string{"result"},
		),
		slugCollisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipebook_slug_collisions_total",
				Help: "Total number of slug candidates that were already taken.",
			},
			[]string{"entity"},
		),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.registrations,
		m.logins,
		m.slugCollisions,
	)

	return m
}

// Registration counts a registration attempt.
func (m *Metrics) Registration(result string) {
	m.registrations.WithLabelValues(result).Inc()
}

// Login counts a login attempt.
func (m *Metrics) Login(result string) {
	m.logins.WithLabelValues(result).Inc()
}

// SlugCollision counts a taken slug candidate.
func (m *Metrics) SlugCollision(entity string) {
	m.slugCollisions.WithLabelValues(entity).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware records request counts and durations. Paths are labelled with
// the chi route pattern so that IDs do not create new series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sr, r)

		path := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		m.httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(sr.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
