package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_admin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_admin_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	dbConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clinic_admin_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	loginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_admin_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	sensitiveAccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_admin_sensitive_access_total",
			Help: "Total number of sensitive document accesses",
		},
		[]string{"user_role", "status"},
	)
)

// MetricsCollector records service-level Prometheus metrics.
type MetricsCollector struct{}

// NewMetricsCollector creates a metrics collector. Metrics are registered
// on the default registry at package load.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordHTTPRequest records a completed request.
func (m *MetricsCollector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDBConnections records the current connection pool usage.
func (m *MetricsCollector) RecordDBConnections(active int) {
	dbConnectionsActive.Set(float64(active))
}

// RecordLoginAttempt records a login attempt outcome.
func (m *MetricsCollector) RecordLoginAttempt(status string) {
	loginAttemptsTotal.WithLabelValues(status).Inc()
}

// RecordSensitiveAccess records an access to sensitive patient documents.
func (m *MetricsCollector) RecordSensitiveAccess(userRole, status string) {
	sensitiveAccessTotal.WithLabelValues(userRole, status).Inc()
}

// Handler returns the Prometheus scrape handler.
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMiddleware records request metrics around a handler.
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		m.RecordHTTPRequest(r.Method, r.URL.Path, wrapper.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
