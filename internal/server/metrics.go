package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	calculations   *prometheus.CounterVec
	skippedAnswers prometheus.Counter
	totalEmissions prometheus.Histogram
	chatReplies    *prometheus.CounterVec
	sessionsPurged prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "footprint_calculations_total",
			Help: "Calculations by response shape and outcome.",
		}, []string{"shape", "outcome"}),
		skippedAnswers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footprint_answers_skipped_total",
			Help: "Answers that contributed nothing to a calculation.",
		}),
		totalEmissions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "footprint_total_emissions_kg",
			Help:    "Annual total emissions returned by calculations.",
			Buckets: prometheus.LinearBuckets(0, 1000, 10),
		}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "footprint_chat_replies_total",
			Help: "Chat turns by outcome.",
		}, []string{"outcome"}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footprint_chat_sessions_purged_total",
			Help: "Expired chat sessions removed by the cleanup job.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.calculations,
		m.skippedAnswers,
		m.totalEmissions,
		m.chatReplies,
		m.sessionsPurged,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) calculation(shape string, total float64, skipped int, err error) {
	if err != nil {
		m.calculations.WithLabelValues(shape, "error").Inc()
		return
	}
	m.calculations.WithLabelValues(shape, "ok").Inc()
	m.skippedAnswers.Add(float64(skipped))
	m.totalEmissions.Observe(total)
}

func (m *Metrics) chatReply(outcome string) {
	m.chatReplies.WithLabelValues(outcome).Inc()
}

func (m *Metrics) purged(n int) {
	m.sessionsPurged.Add(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}
