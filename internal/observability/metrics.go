package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the service's Prometheus collectors.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	emailsSent   prometheus.Counter
	emailsFailed prometheus.Counter
}

// NewMetrics builds and registers collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_http_requests_total",
			Help: "HTTP requests by path, method and status.",
		}, []string{"path", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpdesk_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_http_errors_total",
			Help: "Requests that resolved to a domain error, by code.",
		}, []string{"path", "method", "code"}),
		emailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helpdesk_emails_sent_total",
			Help: "Notification emails delivered to the mail transport.",
		}),
		emailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helpdesk_emails_failed_total",
			Help: "Notification emails that failed to send.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.errors, m.emailsSent, m.emailsFailed)
	return m
}

// RecordRequest counts a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(path, method).Observe(elapsed.Seconds())
}

// RecordError counts a request that ended in a domain error.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordEmail counts a notification send attempt.
func (m *Metrics) RecordEmail(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.emailsFailed.Inc()
		return
	}
	m.emailsSent.Inc()
}
