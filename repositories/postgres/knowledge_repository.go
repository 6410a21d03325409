package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/models"
	"github.com/bioscout-islamabad/backend/repositories"
)

// KnowledgeRepository implements the repositories.KnowledgeRepository interface
type KnowledgeRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewKnowledgeRepository creates a new knowledge repository
func NewKnowledgeRepository(db *DB, logger *zap.Logger) repositories.KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

// List returns all knowledge entries
func (r *KnowledgeRepository) List(ctx context.Context) ([]*models.KnowledgeEntry, error) {
	query := `
		SELECT id, title, content, source, species_references, created_at, updated_at
		FROM knowledge_sources
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge entries: %w", err)
	}
	defer rows.Close()

	var result []*models.KnowledgeEntry
	for rows.Next() {
		e := &models.KnowledgeEntry{}
		err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Content,
			&e.Source,
			pq.Array(&e.SpeciesReferences),
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan knowledge entry: %w", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knowledge rows: %w", err)
	}

	return result, nil
}

// Insert appends a new knowledge entry
func (r *KnowledgeRepository) Insert(ctx context.Context, entry *models.KnowledgeEntry) error {
	query := `
		INSERT INTO knowledge_sources (
			id, title, content, source, species_references, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Title,
		entry.Content,
		entry.Source,
		pq.Array(entry.SpeciesReferences),
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert knowledge entry: %w", err)
	}

	r.logger.Debug("knowledge entry inserted",
		zap.String("id", entry.ID.String()),
		zap.String("title", entry.Title))
	return nil
}
