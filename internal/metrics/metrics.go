// Package metrics exports Prometheus metrics for votes, evictions, random picks and HTTP traffic.
//
// Each [Metrics] owns its registry so tests and multiple servers in one process never collide on registration.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/recommendations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "singme"

// Metrics implements [recommendations.Recorder] and records HTTP request metrics.
type Metrics struct {
	registry *prometheus.Registry

	votes           *prometheus.CounterVec
	evictions       prometheus.Counter
	randomPicks     *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ recommendations.Recorder = (*Metrics)(nil)

// New creates a Metrics instance with its own registry. Go runtime and process collectors are registered alongside.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		votes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_total",
				Help:      "Votes applied to recommendations.",
			},
			[]string{"direction"},
		),
		evictions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evictions_total",
				Help:      "Recommendations removed after falling below the eviction threshold.",
			},
		),
		randomPicks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "random_picks_total",
				Help:      "Random picks by the bucket they were served from.",
			},
			[]string{"bucket", "fallback"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *Metrics) Vote(direction models.Direction) {
	m.votes.WithLabelValues(direction.String()).Inc()
}

func (m *Metrics) Evicted() {
	m.evictions.Inc()
}

func (m *Metrics) RandomPick(bucket recommendations.Bucket, fallback bool) {
	m.randomPicks.WithLabelValues(string(bucket), strconv.FormatBool(fallback)).Inc()
}

// ObserveRequest records a finished HTTP request. route should be the registered pattern, not the raw path, to keep
// label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for callers that gather directly.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
