// Package metrics exposes Prometheus instrumentation for the HTTP API,
// the export cache and domain events.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "confighub"

// Collector holds every metric the service records
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	cacheResults        *prometheus.CounterVec
	domainEvents        *prometheus.CounterVec
}

// NewCollector registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		cacheResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_results_total",
				Help:      "Cache lookups by outcome (hit, miss, error)",
			},
			[]string{"cache", "result"},
		),
		domainEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_total",
				Help:      "Domain events published by type",
			},
			[]string{"type"},
		),
	}
}

// RecordHTTPRequest records one handled request. path is the route template.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCacheResult records a cache lookup outcome
func (c *Collector) RecordCacheResult(cache, result string) {
	c.cacheResults.WithLabelValues(cache, result).Inc()
}

// RecordEvent records a published domain event
func (c *Collector) RecordEvent(eventType string) {
	c.domainEvents.WithLabelValues(eventType).Inc()
}
