package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Index operation metrics
	indexOperationsTotal   *prometheus.CounterVec
	indexOperationDuration *prometheus.HistogramVec
	indexKeysTotal         prometheus.Gauge
	indexFileSizeBytes     prometheus.Gauge
	indexTreeHeight        prometheus.Gauge

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ygg_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ygg_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		indexOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ygg_index_operations_total",
				Help: "Total number of index operations",
			},
			[]string{"operation", "status"},
		),

		indexOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ygg_index_operation_duration_seconds",
				Help:    "Index operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		indexKeysTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ygg_index_keys_total",
				Help: "Total number of keys in the open index",
			},
		),

		indexFileSizeBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ygg_index_file_size_bytes",
				Help: "Size of the open index file in bytes",
			},
		),

		indexTreeHeight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ygg_index_tree_height",
				Help: "Height of the open index B-tree",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ygg_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordIndexOperation records an index operation
func (m *Metrics) RecordIndexOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.indexOperationsTotal.WithLabelValues(operation, status).Inc()
	m.indexOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateIndexStats updates the index shape gauges
func (m *Metrics) UpdateIndexStats(keys, height int, fileSize int64) {
	m.indexKeysTotal.Set(float64(keys))
	m.indexTreeHeight.Set(float64(height))
	m.indexFileSizeBytes.Set(float64(fileSize))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the original handler
		handler(rw, r)

		// Record metrics
		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
