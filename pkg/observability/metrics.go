package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	Port        int
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.Handler()

	return provider, handler, nil
}

// BatchMetrics holds the Prometheus collectors for end-of-day batch runs.
// Counters are labelled by stage ("rate_reset", "delinquency").
type BatchMetrics struct {
	LoansProcessed *prometheus.CounterVec
	LoansSkipped   *prometheus.CounterVec
	LoanErrors     *prometheus.CounterVec
	RunDuration    prometheus.Histogram
}

// NewBatchMetrics creates and registers the batch collectors. Pass
// prometheus.DefaultRegisterer to expose them via the promhttp handler
// returned by InitMetrics.
func NewBatchMetrics(reg prometheus.Registerer) *BatchMetrics {
	m := &BatchMetrics{
		LoansProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_eod_loans_processed_total",
			Help: "Loans successfully processed per end-of-day stage.",
		}, []string{"stage"}),
		LoansSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_eod_loans_skipped_total",
			Help: "Loans skipped per end-of-day stage, e.g. snapshot already taken.",
		}, []string{"stage"}),
		LoanErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_eod_loan_errors_total",
			Help: "Loans that failed per end-of-day stage.",
		}, []string{"stage"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lms_eod_run_duration_seconds",
			Help:    "Wall-clock duration of a full end-of-day run.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
	reg.MustRegister(m.LoansProcessed, m.LoansSkipped, m.LoanErrors, m.RunDuration)
	return m
}
