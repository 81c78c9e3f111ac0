// Package metrics holds the Prometheus-backed metric recorders used by the
// application services.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "campus_events"

// OperationMetrics records the lifecycle of a service operation.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
}

// RegistrationMetrics adds registration-engine specific series.
type RegistrationMetrics interface {
	OperationMetrics
	RecordTransition(ctx context.Context, action string)
	SetCounterDrift(eventID int64, drift int)
}

type operationMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewOperationMetrics registers the operation series for one subsystem.
func NewOperationMetrics(reg prometheus.Registerer, subsystem string) OperationMetrics {
	return newOperationMetrics(reg, subsystem)
}

func newOperationMetrics(reg prometheus.Registerer, subsystem string) *operationMetrics {
	labels := []string{"operation", "service"}
	m := &operationMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_success_total",
			Help:      "Service operations that completed with a success result.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_failure_total",
			Help:      "Service operations that ended in a domain failure or error.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.duration)
	return m
}

func (m *operationMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *operationMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *operationMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *operationMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

type registrationMetrics struct {
	*operationMetrics
	transitions *prometheus.CounterVec
	drift       *prometheus.GaugeVec
}

// NewRegistrationMetrics registers the event subsystem series.
func NewRegistrationMetrics(reg prometheus.Registerer) RegistrationMetrics {
	m := &registrationMetrics{
		operationMetrics: newOperationMetrics(reg, "event"),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "registration_transitions_total",
			Help:      "Registration state transitions by activity action.",
		}, []string{"action"}),
		drift: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "registration_counter_drift",
			Help:      "Stored current_registrations minus the live Registered count.",
		}, []string{"event_id"}),
	}
	reg.MustRegister(m.transitions, m.drift)
	return m
}

func (m *registrationMetrics) RecordTransition(_ context.Context, action string) {
	m.transitions.WithLabelValues(action).Inc()
}

func (m *registrationMetrics) SetCounterDrift(eventID int64, drift int) {
	m.drift.WithLabelValues(strconv.FormatInt(eventID, 10)).Set(float64(drift))
}
