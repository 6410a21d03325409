package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/models"
	"github.com/bioscout-islamabad/backend/repositories"
)

// SpeciesRepository implements the repositories.SpeciesRepository interface
type SpeciesRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSpeciesRepository creates a new species repository
func NewSpeciesRepository(db *DB, logger *zap.Logger) repositories.SpeciesRepository {
	return &SpeciesRepository{
		db:     db,
		logger: logger,
	}
}

// List returns all species records
func (r *SpeciesRepository) List(ctx context.Context) ([]*models.Species, error) {
	query := `
		SELECT id, scientific_name, common_names, type, description, habitat,
		       is_endemic, conservation_status, dietary_habits, created_at, updated_at
		FROM species
		ORDER BY scientific_name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	defer rows.Close()

	var result []*models.Species
	for rows.Next() {
		s := &models.Species{}
		err := rows.Scan(
			&s.ID,
			&s.ScientificName,
			pq.Array(&s.CommonNames),
			&s.Type,
			&s.Description,
			&s.Habitat,
			&s.IsEndemic,
			&s.ConservationStatus,
			&s.DietaryHabits,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan species: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating species rows: %w", err)
	}

	return result, nil
}
