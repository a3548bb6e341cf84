package sinks

import (
	"context"

	"dappshell/internal/metrics"
	"dappshell/internal/models"
)

// MetricsSink records outcome and per-call metrics
type MetricsSink struct{}

// NewMetricsSink creates a MetricsSink
func NewMetricsSink() *MetricsSink {
	return &MetricsSink{}
}

// Handle updates the prometheus collectors
func (s *MetricsSink) Handle(ctx context.Context, outcome *models.ProbeOutcome) error {
	result := "succeeded"
	if !outcome.Succeeded() {
		result = "failed"
	}
	metrics.ProbesTotal.WithLabelValues(result).Inc()
	metrics.ProbeDuration.Observe(outcome.Duration().Seconds())
	metrics.StateGeneration.Set(float64(outcome.Generation))

	for _, call := range outcome.Calls {
		metrics.RemoteCallsTotal.WithLabelValues(call.Method, string(call.Result)).Inc()
		if call.Result != models.CallSkipped {
			metrics.RemoteCallDuration.WithLabelValues(call.Method).Observe(float64(call.DurationMS) / 1000)
		}
	}
	return nil
}

// Name returns the sink name
func (s *MetricsSink) Name() string {
	return "MetricsSink"
}
