// Package telemetry records auth-core metrics through the OpenTelemetry
// metric API.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics counts reconcile calls by intent and outcome status.
type Metrics struct {
	outcomes metric.Int64Counter
}

// NewMetrics creates the auth metrics on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter("single-session-auth")
	outcomes, err := meter.Int64Counter("auth.session.reconcile",
		metric.WithDescription("Session reconcile calls by intent and outcome status"))
	if err != nil {
		return nil, err
	}
	return &Metrics{outcomes: outcomes}, nil
}

// RecordOutcome counts one reconcile call. Nil receivers are allowed so
// callers can run without telemetry wired.
func (m *Metrics) RecordOutcome(ctx context.Context, intent, status string) {
	if m == nil {
		return
	}
	m.outcomes.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("intent", intent),
			attribute.String("status", status),
		))
}
