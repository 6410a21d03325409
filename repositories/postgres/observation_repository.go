package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/models"
	"github.com/bioscout-islamabad/backend/repositories"
)

// ObservationRepository implements the repositories.ObservationRepository interface
type ObservationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewObservationRepository creates a new observation repository
func NewObservationRepository(db *DB, logger *zap.Logger) repositories.ObservationRepository {
	return &ObservationRepository{
		db:     db,
		logger: logger,
	}
}

// ListRecent returns up to limit observations, newest first
func (r *ObservationRepository) ListRecent(ctx context.Context, limit int) ([]*models.Observation, error) {
	query := `
		SELECT id, user_id, species_name, common_names, longitude, latitude,
		       image_url, type, description, identification_confidence, verified,
		       created_at, updated_at
		FROM observations
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var result []*models.Observation
	for rows.Next() {
		o := &models.Observation{}
		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.SpeciesName,
			pq.Array(&o.CommonNames),
			&o.Longitude,
			&o.Latitude,
			&o.ImageURL,
			&o.Type,
			&o.Description,
			&o.IdentificationConfidence,
			&o.Verified,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observation rows: %w", err)
	}

	return result, nil
}
