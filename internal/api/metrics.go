package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	lensRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accesslens_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	lensRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "accesslens_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	lensRecordsScoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accesslens_records_scored_total",
		Help: "Total user records run through the risk scorer.",
	})

	lensScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accesslens_scans_total",
		Help: "Total scan reports recorded.",
	})
)

// PrometheusMiddleware returns a Gin middleware that records per-request metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		lensRequestsTotal.WithLabelValues(method, path, status).Inc()
		lensRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// MetricsHandler returns a Gin handler that serves Prometheus metrics.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordScored adds n to the scored-records counter.
func RecordScored(n int) {
	if n > 0 {
		lensRecordsScoredTotal.Add(float64(n))
	}
}

// RecordScanSaved counts one recorded scan report.
func RecordScanSaved() {
	lensScansTotal.Inc()
}
