package storage

import (
	"context"
	"errors"

	"dappshell/internal/models"
)

// ErrNotFound is returned when no probe outcome matches
var ErrNotFound = errors.New("not found")

// Repository defines the interface for all storage operations
type Repository interface {
	// Probe outcomes
	SaveProbeOutcome(ctx context.Context, outcome *models.ProbeOutcome) error
	ListProbeOutcomes(ctx context.Context, limit, offset int) ([]*models.ProbeOutcome, error)
	LatestProbeOutcome(ctx context.Context) (*models.ProbeOutcome, error)

	// Health & Maintenance
	Ping(ctx context.Context) error
	Close() error
}
