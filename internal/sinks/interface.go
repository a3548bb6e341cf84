package sinks

import (
	"context"

	"dappshell/internal/models"
)

// Sink defines the interface every probe outcome consumer implements
type Sink interface {
	// Handle consumes one outcome
	// Returns error when the outcome could not be recorded; other sinks still run
	Handle(ctx context.Context, outcome *models.ProbeOutcome) error

	// Name returns the sink name for logging
	Name() string
}
