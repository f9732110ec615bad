package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCreated  = "created"
	outcomeAppended = "appended"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

type metrics struct {
	captures *prometheus.CounterVec
	links    prometheus.Counter
	requests *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		captures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "highlights_captures_total",
			Help: "Captures received, by outcome (created, appended, invalid, error).",
		}, []string{"outcome"}),
		links: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "highlights_links_recorded_total",
			Help: "Source links written to a note for the first time.",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "highlights_http_request_duration_seconds",
			Help:    "HTTP request duration by method, route and status.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.captures, m.links, m.requests)
	return m
}

func (m *metrics) observeRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
