package storage

import (
	"context"
	"sort"
	"sync"

	"dappshell/internal/models"
)

// MemoryRepository keeps outcomes in process memory, bounded to capacity entries
type MemoryRepository struct {
	mu       sync.RWMutex
	outcomes []*models.ProbeOutcome
	nextID   int64
	capacity int
}

// NewMemoryRepository creates a MemoryRepository. capacity <= 0 means unbounded.
func NewMemoryRepository(capacity int) *MemoryRepository {
	return &MemoryRepository{
		capacity: capacity,
		nextID:   1,
	}
}

// SaveProbeOutcome stores a copy of outcome and sets its ID
func (r *MemoryRepository) SaveProbeOutcome(ctx context.Context, outcome *models.ProbeOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	outcome.ID = r.nextID
	r.nextID++

	stored := *outcome
	stored.Calls = append([]models.CallRecord(nil), outcome.Calls...)
	r.outcomes = append(r.outcomes, &stored)

	if r.capacity > 0 && len(r.outcomes) > r.capacity {
		r.outcomes = r.outcomes[len(r.outcomes)-r.capacity:]
	}
	return nil
}

// ListProbeOutcomes lists outcomes newest first with pagination
func (r *MemoryRepository) ListProbeOutcomes(ctx context.Context, limit, offset int) ([]*models.ProbeOutcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := append([]*models.ProbeOutcome(nil), r.outcomes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartedAt.Equal(sorted[j].StartedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})

	if offset >= len(sorted) {
		return nil, nil
	}
	sorted = sorted[offset:]
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	result := make([]*models.ProbeOutcome, 0, len(sorted))
	for _, outcome := range sorted {
		copied := *outcome
		copied.Calls = append([]models.CallRecord(nil), outcome.Calls...)
		result = append(result, &copied)
	}
	return result, nil
}

// LatestProbeOutcome returns the most recent outcome
func (r *MemoryRepository) LatestProbeOutcome(ctx context.Context) (*models.ProbeOutcome, error) {
	outcomes, err := r.ListProbeOutcomes(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(outcomes) == 0 {
		return nil, ErrNotFound
	}
	return outcomes[0], nil
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (r *MemoryRepository) Close() error {
	return nil
}
