package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector owns the Prometheus registry for the process. Every metric
// is registered against the collector's own registry, so constructing a
// second collector (tests do this freely) never trips duplicate registration.
type MetricsCollector struct {
	serviceName string
	registry    *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	dbConnectionsActive *prometheus.GaugeVec
	authAttemptsTotal   *prometheus.CounterVec
	otpEventsTotal      *prometheus.CounterVec
	emailsSentTotal     *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(serviceName string) *MetricsCollector {
	m := &MetricsCollector{
		serviceName: serviceName,
		registry:    prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code", "service"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "service"},
		),
		dbConnectionsActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections_active",
				Help: "Number of open database connections",
			},
			[]string{"database", "service"},
		),
		authAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
			[]string{"method", "status", "service"},
		),
		otpEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otp_events_total",
				Help: "Total number of one-time code issue and verify events",
			},
			[]string{"event", "outcome", "service"},
		),
		emailsSentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emails_sent_total",
				Help: "Total number of outbound emails",
			},
			[]string{"kind", "status", "service"},
		),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbConnectionsActive,
		m.authAttemptsTotal,
		m.otpEventsTotal,
		m.emailsSentTotal,
	)

	return m
}

// RecordHTTPRequest records HTTP request metrics
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCode, m.serviceName).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint, m.serviceName).Observe(duration.Seconds())
}

// RecordDBConnection records the current open connection count for a database
func (m *MetricsCollector) RecordDBConnection(database string, openConnections int) {
	m.dbConnectionsActive.WithLabelValues(database, m.serviceName).Set(float64(openConnections))
}

// RecordAuthAttempt records an authentication attempt and its outcome
func (m *MetricsCollector) RecordAuthAttempt(method, status string) {
	m.authAttemptsTotal.WithLabelValues(method, status, m.serviceName).Inc()
}

// RecordOTPEvent records a one-time code issue or verify outcome
func (m *MetricsCollector) RecordOTPEvent(event, outcome string) {
	m.otpEventsTotal.WithLabelValues(event, outcome, m.serviceName).Inc()
}

// RecordEmailSent records an outbound email attempt
func (m *MetricsCollector) RecordEmailSent(kind string, success bool) {
	status := "sent"
	if !success {
		status = "failed"
	}
	m.emailsSentTotal.WithLabelValues(kind, status, m.serviceName).Inc()
}

// Handler returns the Prometheus metrics HTTP handler for this collector
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request metrics for every route. The route template
// is used as the endpoint label so path parameters do not explode cardinality.
func (m *MetricsCollector) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
