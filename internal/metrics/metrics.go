// Package metrics provides Prometheus collectors for the MyHome API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	documentBytes   *prometheus.HistogramVec
	outboxEvents    *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "myhome_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "myhome_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		documentBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "myhome_member_document_bytes",
				Help:    "Size of stored house member documents",
				Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
			},
			[]string{"stage"},
		),
		outboxEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "myhome_outbox_events_total",
				Help: "Domain events relayed from the outbox",
			},
			[]string{"result"},
		),
	}
}

// NewDefault creates a registry with the Go and process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return New(reg)
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDocument records a document size; stage is "upload" or "stored".
func (m *Metrics) ObserveDocument(stage string, size int) {
	if m == nil {
		return
	}
	m.documentBytes.WithLabelValues(stage).Observe(float64(size))
}

func (m *Metrics) OutboxSent() {
	if m == nil {
		return
	}
	m.outboxEvents.WithLabelValues("sent").Inc()
}

func (m *Metrics) OutboxFailed() {
	if m == nil {
		return
	}
	m.outboxEvents.WithLabelValues("failed").Inc()
}
