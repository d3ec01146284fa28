package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	PatientTotal          metric.Int64Counter
	OrderTotal            metric.Int64Counter
	IdentifiersAssigned   metric.Int64Counter
	SyncAttemptsTotal     metric.Int64Counter
	SyncDurationMs        metric.Float64Histogram
	FailedEventRetryTotal metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal metric.Int64Counter
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/Abershum-Health/elis-sync-service")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	patientTotal, err := meter.Int64Counter(
		"patient_total",
		metric.WithDescription("Total number of patient operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	orderTotal, err := meter.Int64Counter(
		"order_total",
		metric.WithDescription("Total number of order operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	identifiersAssigned, err := meter.Int64Counter(
		"patient_identifiers_assigned_total",
		metric.WithDescription("Total number of patient identifiers drawn from the sequence"),
		metric.WithUnit("{identifier}"),
	)
	if err != nil {
		return nil, err
	}

	syncAttemptsTotal, err := meter.Int64Counter(
		"elis_sync_attempts_total",
		metric.WithDescription("Total number of OpenELIS sync attempts by kind and outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	syncDurationMs, err := meter.Float64Histogram(
		"elis_sync_duration_milliseconds",
		metric.WithDescription("OpenELIS sync call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	failedEventRetryTotal, err := meter.Int64Counter(
		"elis_failed_event_retries_total",
		metric.WithDescription("Total number of failed-event retry attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:     httpRequestsTotal,
		HTTPDurationMs:        httpDurationMs,
		PatientTotal:          patientTotal,
		OrderTotal:            orderTotal,
		IdentifiersAssigned:   identifiersAssigned,
		SyncAttemptsTotal:     syncAttemptsTotal,
		SyncDurationMs:        syncDurationMs,
		FailedEventRetryTotal: failedEventRetryTotal,
		AuthFailuresTotal:     authFailuresTotal,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordPatientOperation records a patient operation metric
func (m *Metrics) RecordPatientOperation(ctx context.Context, operation string) {
	m.PatientTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordOrderOperation records an order operation metric
func (m *Metrics) RecordOrderOperation(ctx context.Context, operation string) {
	m.OrderTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordIdentifierAssigned records one identifier drawn from a sequence
func (m *Metrics) RecordIdentifierAssigned(ctx context.Context, sequenceName string) {
	m.IdentifiersAssigned.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sequence", sequenceName),
	))
}

// RecordSyncAttempt records a sync attempt with its outcome ("success", "failure", "skipped")
func (m *Metrics) RecordSyncAttempt(ctx context.Context, kind, outcome string, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	}
	m.SyncAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if outcome != "skipped" {
		m.SyncDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
	}
}

// RecordFailedEventRetry records a retry attempt for a stored failed event
func (m *Metrics) RecordFailedEventRetry(ctx context.Context, kind string, success bool) {
	m.FailedEventRetryTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("success", success),
	))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}
