package core

import (
	"context"
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"hospicore/pkg/domain"
)

// MetricsRecorder receives service operation outcomes and rule violations.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
	ObserveViolation(ctx context.Context, rule string, severity domain.Severity)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

func (noopMetrics) ObserveViolation(context.Context, string, domain.Severity) {}

var expvarSeq uint64

// ExpvarMetricsRecorder publishes aggregate timing, result and violation
// counters via expvar for deployments that prefer process-local metrics
// without external dependencies. Durations accumulate in milliseconds per
// operation.
type ExpvarMetricsRecorder struct {
	name       string
	mu         sync.Mutex
	durations  map[string]float64
	results    map[string]map[string]int64
	violations map[string]map[string]int64
}

// ExpvarMetricsSnapshot captures a read-only view of the recorded metrics.
type ExpvarMetricsSnapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	Violations  map[string]map[string]int64 `json:"violations_total"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder constructs an expvar-backed recorder and publishes
// it under the supplied name. When name is empty, a unique identifier is
// generated.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("hospicore_service_metrics_%d", id)
	}
	rec := &ExpvarMetricsRecorder{
		name:       name,
		durations:  make(map[string]float64),
		results:    make(map[string]map[string]int64),
		violations: make(map[string]map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.durations))
	for op, total := range r.durations {
		durations[op] = total
	}

	return ExpvarMetricsSnapshot{
		DurationsMS: durations,
		Results:     copyCounters(r.results),
		Violations:  copyCounters(r.violations),
		RecordedAt:  time.Now().UTC(),
	}
}

func copyCounters(src map[string]map[string]int64) map[string]map[string]int64 {
	out := make(map[string]map[string]int64, len(src))
	for key, counts := range src {
		cpy := make(map[string]int64, len(counts))
		for label, count := range counts {
			cpy[label] = count
		}
		out[key] = cpy
	}
	return out
}

// Observe records a service operation outcome.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)
	status := "error"
	if success {
		status = "success"
	}

	r.mu.Lock()
	r.durations[operation] += ms
	if _, ok := r.results[operation]; !ok {
		r.results[operation] = make(map[string]int64, 2)
	}
	r.results[operation][status]++
	r.mu.Unlock()
}

// ObserveViolation records a rule violation by rule name and severity.
func (r *ExpvarMetricsRecorder) ObserveViolation(_ context.Context, rule string, severity domain.Severity) {
	if rule == "" {
		return
	}
	r.mu.Lock()
	if _, ok := r.violations[rule]; !ok {
		r.violations[rule] = make(map[string]int64, 3)
	}
	r.violations[rule][string(severity)]++
	r.mu.Unlock()
}

// PrometheusMetricsRecorder exports service metrics through a Prometheus
// registerer: an operations counter and duration histogram per operation,
// and a violation counter per rule and severity.
type PrometheusMetricsRecorder struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	violations *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder registers the hospicore metric families with
// the supplied registerer. Pass prometheus.DefaultRegisterer for the process
// default registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	factory := promauto.With(reg)
	return &PrometheusMetricsRecorder{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hospicore_operations_total",
				Help: "Total number of service operations by outcome",
			},
			[]string{"operation", "status"},
		),
		durations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hospicore_operation_duration_seconds",
				Help:    "Service operation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		violations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hospicore_rule_violations_total",
				Help: "Total number of rule violations by rule and severity",
			},
			[]string{"rule", "severity"},
		),
	}
}

// Observe records a service operation outcome.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.operations.WithLabelValues(operation, status).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveViolation records a rule violation by rule name and severity.
func (r *PrometheusMetricsRecorder) ObserveViolation(_ context.Context, rule string, severity domain.Severity) {
	if rule == "" {
		return
	}
	r.violations.WithLabelValues(rule, string(severity)).Inc()
}
