package repository

import (
	"context"
	"speakermap/internal/model"

	"github.com/google/uuid"
)

// MatchRepository defines the interface for match-run data access
type MatchRepository interface {
	// Create stores a new match run
	Create(ctx context.Context, run *model.MatchRun) error

	// GetByID retrieves a match run by ID
	GetByID(ctx context.Context, id uuid.UUID) (*model.MatchRun, error)

	// ListRecent retrieves the most recent match runs
	ListRecent(ctx context.Context, limit int) ([]model.MatchRun, error)

	// UpdateLabel overwrites one label's result in a stored mapping
	// (the manual-correction write path)
	UpdateLabel(ctx context.Context, id uuid.UUID, label string, res model.MatchResult) error
}
