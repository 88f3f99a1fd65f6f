// Package stats provides Prometheus metrics for lifecycle operations
// and provider API calls.
package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lifecycle operation metrics
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "podctl_operations_total",
			Help: "Total number of lifecycle operations",
		},
		[]string{"operation", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "podctl_operation_duration_seconds",
			Help:    "Lifecycle operation duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"operation"},
	)

	// Provider API metrics
	providerCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "podctl_provider_calls_total",
			Help: "Total number of provider API calls",
		},
		[]string{"call", "status"},
	)

	providerRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "podctl_provider_retries_total",
			Help: "Total number of retried provider API calls",
		},
		[]string{"call"},
	)

	// Deploy fallback metrics
	deployAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "podctl_deploy_attempts_total",
			Help: "Total number of pod creation attempts per GPU type",
		},
		[]string{"gpu_type", "status"},
	)

	affordableGPUs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "podctl_affordable_gpu_types",
			Help: "Number of GPU types under the price ceiling at the last deploy",
		},
	)
)

// Recorder records operation metrics. All methods are safe on a nil
// receiver so metrics stay optional for library callers.
type Recorder struct{}

// NewRecorder creates a metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordOperation records a completed lifecycle operation.
func (r *Recorder) RecordOperation(operation string, success bool, duration time.Duration) {
	if r == nil {
		return
	}
	operationsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
	operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordProviderCall records one provider API call outcome.
func (r *Recorder) RecordProviderCall(call string, success bool) {
	if r == nil {
		return
	}
	providerCalls.WithLabelValues(call, statusLabel(success)).Inc()
}

// RecordProviderRetry records a retry of a transient provider failure.
func (r *Recorder) RecordProviderRetry(call string) {
	if r == nil {
		return
	}
	providerRetries.WithLabelValues(call).Inc()
}

// RecordDeployAttempt records a pod creation attempt for a GPU type.
func (r *Recorder) RecordDeployAttempt(gpuType string, success bool) {
	if r == nil {
		return
	}
	deployAttempts.WithLabelValues(gpuType, statusLabel(success)).Inc()
}

// SetAffordableGPUs records how many GPU types passed the price filter.
func (r *Recorder) SetAffordableGPUs(count int) {
	if r == nil {
		return
	}
	affordableGPUs.Set(float64(count))
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
