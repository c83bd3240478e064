package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the server's Prometheus metrics.
type Collector struct {
	submissions *prometheus.CounterVec
	durations   prometheus.Histogram
	rateLimited prometheus.Counter
	requests    *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewCollector registers the metrics on reg and returns the collector.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splits_submissions_total",
			Help: "Split submissions by outcome.",
		}, []string{"outcome"}),
		durations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "splits_duration_seconds",
			Help: "Reported trip durations in seconds.",
			// Floor trips run from a few seconds to a couple of minutes.
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "splits_rate_limited_total",
			Help: "Requests rejected by the per-client rate limit.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splits_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "splits_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.submissions, c.durations, c.rateLimited, c.requests, c.latency)
	return c
}

func (c *Collector) RecordSubmission(outcome string, durationMs int64) {
	c.submissions.WithLabelValues(outcome).Inc()
	if outcome == "accepted" {
		c.durations.Observe(float64(durationMs) / 1000.0)
	}
}

func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

func (c *Collector) RecordRequest(method string, status int, elapsed float64) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.latency.Observe(elapsed)
}

// MetricsHandler exposes the registry in the Prometheus text format.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
