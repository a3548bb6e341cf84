package sinks

import (
	"context"
	"fmt"

	"dappshell/internal/models"
	"dappshell/internal/storage"
)

// StorageSink persists outcomes through the repository
type StorageSink struct {
	repository storage.Repository
}

// NewStorageSink creates a StorageSink
func NewStorageSink(repository storage.Repository) *StorageSink {
	return &StorageSink{repository: repository}
}

// Handle saves the outcome
func (s *StorageSink) Handle(ctx context.Context, outcome *models.ProbeOutcome) error {
	if err := s.repository.SaveProbeOutcome(ctx, outcome); err != nil {
		return fmt.Errorf("failed to save probe outcome: %w", err)
	}
	return nil
}

// Name returns the sink name
func (s *StorageSink) Name() string {
	return "StorageSink"
}
