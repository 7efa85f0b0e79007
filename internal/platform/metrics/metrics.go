// Package metrics holds the Prometheus instruments for the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing, so unit tests can pass nil without
// touching the default registry.
type Metrics struct {
	SubscriptionsCreated   prometheus.Counter
	SubscriptionsConfirmed prometheus.Counter
	ConfirmationEmailsSent prometheus.Counter
	ConfirmationEmailsFail prometheus.Counter
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		SubscriptionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "courier_subscriptions_created_total",
			Help: "Total number of pending subscriptions created.",
		}),
		SubscriptionsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "courier_subscriptions_confirmed_total",
			Help: "Total number of subscriptions confirmed.",
		}),
		ConfirmationEmailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "courier_confirmation_emails_sent_total",
			Help: "Total number of confirmation emails accepted by the provider.",
		}),
		ConfirmationEmailsFail: promauto.NewCounter(prometheus.CounterOpts{
			Name: "courier_confirmation_emails_failed_total",
			Help: "Total number of confirmation emails that failed to send.",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "courier_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncSubscriptionsCreated increments the created counter.
func (m *Metrics) IncSubscriptionsCreated() {
	if m != nil {
		m.SubscriptionsCreated.Inc()
	}
}

// IncSubscriptionsConfirmed increments the confirmed counter.
func (m *Metrics) IncSubscriptionsConfirmed() {
	if m != nil {
		m.SubscriptionsConfirmed.Inc()
	}
}

// IncEmailsSent increments the sent counter.
func (m *Metrics) IncEmailsSent() {
	if m != nil {
		m.ConfirmationEmailsSent.Inc()
	}
}

// IncEmailsFailed increments the failed counter.
func (m *Metrics) IncEmailsFailed() {
	if m != nil {
		m.ConfirmationEmailsFail.Inc()
	}
}

// ObserveRequest records one request's latency.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(elapsed.Seconds())
	}
}
