package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbill_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymbill_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	InvoicesIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbill_invoices_issued_total",
			Help: "Total number of invoices issued",
		},
		[]string{"gym_code"},
	)

	BillingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbill_billing_runs_total",
			Help: "Total number of monthly billing generations",
		},
		[]string{"status"},
	)

	PaymentsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbill_payments_recorded_total",
			Help: "Total number of payments recorded against monthly billings",
		},
		[]string{"method"},
	)

	MembershipsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbill_memberships_created_total",
			Help: "Total number of memberships created or renewed",
		},
		[]string{"type"},
	)

	CheckInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymbill_checkins_total",
			Help: "Total number of member check-ins",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbill_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymbill_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	AppSubscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbill_app_subscriptions_total",
			Help: "Total number of app-access subscription events",
		},
		[]string{"event"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordInvoice(gymCode string) {
	InvoicesIssuedTotal.WithLabelValues(gymCode).Inc()
}

func RecordBillingRun(status string) {
	BillingRunsTotal.WithLabelValues(status).Inc()
}

func RecordPayment(method string) {
	PaymentsRecordedTotal.WithLabelValues(method).Inc()
}

func RecordMembership(membershipType string) {
	MembershipsCreatedTotal.WithLabelValues(membershipType).Inc()
}

func RecordCheckIn() {
	CheckInsTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordAppSubscription(event string) {
	AppSubscriptionsTotal.WithLabelValues(event).Inc()
}
