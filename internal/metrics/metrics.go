package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business
	PaymentsCreated        *prometheus.CounterVec
	PaymentCreationErrors  *prometheus.CounterVec
	NotificationsProcessed *prometheus.CounterVec
	ReconcileTransitions   *prometheus.CounterVec
	DuplicateSignals       prometheus.Counter
	CreditsApplied         prometheus.Counter
	TokensCredited         prometheus.Counter

	// Database
	DBQueryDuration *prometheus.HistogramVec
	DBQueriesTotal  *prometheus.CounterVec

	// Validation
	ValidationErrors *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payments_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "payments_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		PaymentsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_created_total",
				Help: "Total number of payment transactions initiated",
			},
			[]string{"package"},
		),
		PaymentCreationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_creation_errors_total",
				Help: "Total number of failed payment initiations",
			},
			[]string{"code"},
		),
		NotificationsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_notifications_processed_total",
				Help: "Total number of gateway webhook notifications processed",
			},
			[]string{"outcome"},
		),
		ReconcileTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_reconcile_transitions_total",
				Help: "Total number of payment status transitions applied",
			},
			[]string{"status"},
		),
		DuplicateSignals: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payments_duplicate_signals_total",
				Help: "Total number of status reports ignored because the payment was already settled",
			},
		),
		CreditsApplied: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payments_credits_applied_total",
				Help: "Total number of token credits applied to user balances",
			},
		),
		TokensCredited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payments_tokens_credited_total",
				Help: "Total number of tokens credited to user balances",
			},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payments_db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_validation_errors_total",
				Help: "Total number of request validation errors",
			},
			[]string{"field", "tag"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordPaymentCreated(packageID string) {
	m.PaymentsCreated.WithLabelValues(packageID).Inc()
}

func (m *Metrics) RecordPaymentCreationError(code string) {
	m.PaymentCreationErrors.WithLabelValues(code).Inc()
}

func (m *Metrics) RecordNotification(outcome string) {
	m.NotificationsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordTransition(status string) {
	m.ReconcileTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordDuplicateSignal() {
	m.DuplicateSignals.Inc()
}

func (m *Metrics) RecordCredit(tokens int64) {
	m.CreditsApplied.Inc()
	m.TokensCredited.Add(float64(tokens))
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}
