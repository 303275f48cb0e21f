package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each server owns its
// registry so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpDurationSeconds *prometheus.HistogramVec
	plansTotal          prometheus.Counter
	planFailuresTotal   prometheus.Counter
	lookupsTotal        *prometheus.CounterVec
	catalogStars        prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lseclipses_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"path", "method", "code"},
		),
		httpDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lseclipses_http_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		plansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lseclipses_plans_total",
			Help: "Observation plans computed.",
		}),
		planFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lseclipses_plan_star_failures_total",
			Help: "Stars that could not be scheduled.",
		}),
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lseclipses_lookups_total",
				Help: "Remote catalog lookups by kind and outcome.",
			},
			[]string{"kind", "result"},
		),
		catalogStars: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lseclipses_catalog_stars",
			Help: "Stars currently registered.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDurationSeconds,
		m.plansTotal,
		m.planFailuresTotal,
		m.lookupsTotal,
		m.catalogStars,
	)
	return m
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and duration for each request. Paths
// are labeled by route template so star names do not create new series.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "other"
		}
		code := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(path, c.Request.Method, code).Inc()
		m.httpDurationSeconds.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) observeLookup(kind string, err error) {
	m.lookupsTotal.WithLabelValues(kind, lookupOutcome(err)).Inc()
}
