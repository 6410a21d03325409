package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/bioscout-islamabad/backend/models"
)

// SpeciesRepository provides read access to the curated species corpus
type SpeciesRepository interface {
	// List returns all species records
	List(ctx context.Context) ([]*models.Species, error)
}

// KnowledgeRepository provides access to the knowledge-base corpus
type KnowledgeRepository interface {
	// List returns all knowledge entries
	List(ctx context.Context) ([]*models.KnowledgeEntry, error)

	// Insert appends a new knowledge entry
	Insert(ctx context.Context, entry *models.KnowledgeEntry) error
}

// ObservationRepository provides read access to crowd-submitted observations
type ObservationRepository interface {
	// ListRecent returns up to limit observations ordered newest first,
	// so "most recent N" is a stable slice
	ListRecent(ctx context.Context, limit int) ([]*models.Observation, error)
}

// QueryLogRepository owns the append-only question/answer log
type QueryLogRepository interface {
	// Insert appends a new query log entry
	Insert(ctx context.Context, entry *models.QueryLog) error

	// ListByUser returns up to limit entries for a user, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.QueryLog, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Species      SpeciesRepository
	Knowledge    KnowledgeRepository
	Observations ObservationRepository
	QueryLog     QueryLogRepository
}
