// Package perf records request, query and authentication metrics on a
// Prometheus registry and serves them on /metrics.
package perf

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fithub"

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing observation.
type Entry struct {
	Kind       EntryKind
	Path       string // route pattern or "store.Method"
	Method     string
	StatusCode int // HTTP status (0 for queries)
	Duration   time.Duration
}

// Collector owns the metric vectors. A nil *Collector discards everything.
type Collector struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	queryDuration   *prometheus.HistogramVec
	authEvents      *prometheus.CounterVec

	count int64
}

// NewCollector creates a collector on a fresh registry with the Go and
// process collectors registered.
// POST: Returns a ready-to-use collector
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Collector{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "SQL call latency by operation.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .5, 1},
		}, []string{"op"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Authentication events by kind.",
		}, []string{"event"}),
	}
	reg.MustRegister(c.requestDuration, c.queryDuration, c.authEvents)
	return c
}

// Record observes a timing entry.
// POST: Entry added to the matching histogram; TotalRecorded incremented
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	switch e.Kind {
	case KindRequest:
		c.requestDuration.
			WithLabelValues(e.Method, e.Path, strconv.Itoa(e.StatusCode)).
			Observe(e.Duration.Seconds())
	case KindQuery:
		c.queryDuration.WithLabelValues(e.Path).Observe(e.Duration.Seconds())
	}
	atomic.AddInt64(&c.count, 1)
}

// AuthEvent counts an authentication event such as "login_success",
// "login_failed", "account_locked" or "logout".
func (c *Collector) AuthEvent(event string) {
	if c == nil {
		return
	}
	c.authEvents.WithLabelValues(event).Inc()
}

// TotalRecorded returns the number of timing entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	if c == nil {
		return 0
	}
	return atomic.LoadInt64(&c.count)
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
