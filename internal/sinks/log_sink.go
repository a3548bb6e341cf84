package sinks

import (
	"context"
	"log/slog"

	"dappshell/internal/debug"
	"dappshell/internal/models"
)

// LogSink is the diagnostic output: it reports the session status through slog
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Handle logs the outcome
func (s *LogSink) Handle(ctx context.Context, outcome *models.ProbeOutcome) error {
	if outcome.Succeeded() {
		s.logger.InfoContext(ctx, "Current session status",
			"status", outcome.SessionStatus,
			"contract", outcome.ContractAddress,
			"chain_id", outcome.ChainID,
			"generation", outcome.Generation,
		)
	} else {
		s.logger.WarnContext(ctx, "Session probe did not complete",
			"error", outcome.Error,
			"contract", outcome.ContractAddress,
			"generation", outcome.Generation,
		)
	}

	debug.PrintProbeOutcome(outcome)
	return nil
}

// Name returns the sink name
func (s *LogSink) Name() string {
	return "LogSink"
}
