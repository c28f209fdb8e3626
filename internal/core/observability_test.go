package core

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"hospicore/pkg/domain"
)

func TestExpvarMetricsRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()

	rec.Observe(ctx, "create_patient", true, 2*time.Millisecond)
	rec.Observe(ctx, "create_patient", true, 3*time.Millisecond)
	rec.Observe(ctx, "create_patient", false, time.Millisecond)
	rec.Observe(ctx, "delete_room", false, time.Millisecond)
	rec.ObserveViolation(ctx, "stock_level", domain.SeverityWarn)
	rec.ObserveViolation(ctx, "stock_level", domain.SeverityWarn)
	rec.ObserveViolation(ctx, "room_occupancy", domain.SeverityBlock)

	snap := rec.Snapshot()
	if got := snap.Results["create_patient"]["success"]; got != 2 {
		t.Errorf("create_patient success = %d, want 2", got)
	}
	if got := snap.Results["create_patient"]["error"]; got != 1 {
		t.Errorf("create_patient error = %d, want 1", got)
	}
	if got := snap.Results["delete_room"]["error"]; got != 1 {
		t.Errorf("delete_room error = %d, want 1", got)
	}
	if got := snap.DurationsMS["create_patient"]; got != 6 {
		t.Errorf("create_patient duration = %v ms, want 6", got)
	}
	if got := snap.Violations["stock_level"][string(domain.SeverityWarn)]; got != 2 {
		t.Errorf("stock_level warn = %d, want 2", got)
	}
	if got := snap.Violations["room_occupancy"][string(domain.SeverityBlock)]; got != 1 {
		t.Errorf("room_occupancy block = %d, want 1", got)
	}
}

func TestExpvarMetricsRecorderIgnoresEmptyNames(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()

	rec.Observe(ctx, "", true, time.Millisecond)
	rec.ObserveViolation(ctx, "", domain.SeverityWarn)

	snap := rec.Snapshot()
	if len(snap.Results) != 0 || len(snap.Violations) != 0 {
		t.Fatalf("empty names must be dropped: %+v", snap)
	}
}

func TestExpvarMetricsSnapshotIsACopy(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()
	rec.Observe(ctx, "op", true, time.Millisecond)

	snap := rec.Snapshot()
	snap.Results["op"]["success"] = 99

	if got := rec.Snapshot().Results["op"]["success"]; got != 1 {
		t.Fatalf("snapshot mutation leaked into recorder: %d", got)
	}
}

func TestExpvarMetricsRecorderGeneratesUniqueNames(t *testing.T) {
	a := NewExpvarMetricsRecorder("")
	b := NewExpvarMetricsRecorder("")
	if a.Name() == b.Name() {
		t.Fatalf("both recorders published as %q", a.Name())
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	ctx := context.Background()

	rec.Observe(ctx, "create_invoice", true, 5*time.Millisecond)
	rec.Observe(ctx, "create_invoice", true, 5*time.Millisecond)
	rec.Observe(ctx, "create_invoice", false, time.Millisecond)
	rec.ObserveViolation(ctx, "appointment_conflict", domain.SeverityWarn)

	if got := testutil.ToFloat64(rec.operations.WithLabelValues("create_invoice", "success")); got != 2 {
		t.Errorf("success counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("create_invoice", "error")); got != 1 {
		t.Errorf("error counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.violations.WithLabelValues("appointment_conflict", string(domain.SeverityWarn))); got != 1 {
		t.Errorf("violation counter = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(rec.durations, "hospicore_operation_duration_seconds"); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}
