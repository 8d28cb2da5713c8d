package telemetry

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordOutcome(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordOutcome(ctx, "login_create", "authenticated")
	metrics.RecordOutcome(ctx, "login_create", "confirmation_required")
	metrics.RecordOutcome(ctx, "logout", "logged_out")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var total int64
	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "auth.session.reconcile" {
				continue
			}
			found = true
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("data type = %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if !found {
		t.Fatal("auth.session.reconcile metric not collected")
	}
	if total != 3 {
		t.Fatalf("total recorded = %d, want 3", total)
	}
}

func TestRecordOutcomeNilMetrics(t *testing.T) {
	var metrics *Metrics
	// Must be safe when telemetry is not wired.
	metrics.RecordOutcome(context.Background(), "logout", "logged_out")
}
