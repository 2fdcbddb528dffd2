package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds the API's Prometheus metrics on a private registry.
type Manager struct {
	Registry           *prometheus.Registry
	RequestsTotal      *prometheus.CounterVec
	RequestLatency     *prometheus.HistogramVec
	RegistrationsTotal prometheus.Counter
	LoginsTotal        *prometheus.CounterVec
	UploadsTotal       prometheus.Counter
}

// NewManager registers the API metrics under namespace.
func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	requestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	registrationsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered.",
	})
	loginsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts by result.",
	}, []string{"result"})
	uploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Total number of images uploaded.",
	})

	registry.MustRegister(
		requestsTotal,
		requestLatency,
		registrationsTotal,
		loginsTotal,
		uploadsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:           registry,
		RequestsTotal:      requestsTotal,
		RequestLatency:     requestLatency,
		RegistrationsTotal: registrationsTotal,
		LoginsTotal:        loginsTotal,
		UploadsTotal:       uploadsTotal,
	}
}

// Handler exposes the registry for scraping.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records count and latency per mux route template.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tmpl, err := cr.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.RequestLatency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
