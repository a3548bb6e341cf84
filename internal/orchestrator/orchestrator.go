package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dappshell/internal/metrics"
	"dappshell/internal/models"
	"dappshell/internal/sinks"
)

// Orchestrator hands every probe outcome to the registered sinks
type Orchestrator struct {
	sinks []sinks.Sink
}

// New creates a new Orchestrator with the given sinks
func New(sinks []sinks.Sink) *Orchestrator {
	return &Orchestrator{
		sinks: sinks,
	}
}

// Dispatch runs an outcome through all registered sinks in order.
// A failing sink does not stop the others; the failures are returned joined.
func (o *Orchestrator) Dispatch(ctx context.Context, outcome *models.ProbeOutcome) error {
	slog.Debug("Orchestrator: Dispatching probe outcome",
		"generation", outcome.Generation,
		"sinks_count", len(o.sinks),
	)

	var errs []error
	for _, sink := range o.sinks {
		if err := sink.Handle(ctx, outcome); err != nil {
			slog.Error("Sink failed to handle outcome",
				"sink", sink.Name(),
				"generation", outcome.Generation,
				"error", err,
			)
			metrics.ErrorsTotal.WithLabelValues(sink.Name()).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}

	return errors.Join(errs...)
}

// Sinks returns the list of registered sinks (for inspection/testing)
func (o *Orchestrator) Sinks() []sinks.Sink {
	return o.sinks
}
