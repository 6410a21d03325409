package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/models"
	"github.com/bioscout-islamabad/backend/repositories"
)

// QueryLogRepository implements the repositories.QueryLogRepository interface
type QueryLogRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewQueryLogRepository creates a new query log repository
func NewQueryLogRepository(db *DB, logger *zap.Logger) repositories.QueryLogRepository {
	return &QueryLogRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a new query log entry
func (r *QueryLogRepository) Insert(ctx context.Context, entry *models.QueryLog) error {
	query := `
		INSERT INTO query_log (
			id, user_id, question, answer, related_observation_ids,
			related_species_ids, sources_used, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Question,
		entry.Answer,
		pq.Array(entry.RelatedObservationIDs),
		pq.Array(entry.RelatedSpeciesIDs),
		pq.Array(entry.SourcesUsed),
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert query log entry: %w", err)
	}

	r.logger.Debug("query log entry inserted", zap.String("id", entry.ID.String()))
	return nil
}

// ListByUser returns up to limit entries for a user, newest first
func (r *QueryLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.QueryLog, error) {
	query := `
		SELECT id, user_id, question, answer, related_observation_ids,
		       related_species_ids, sources_used, created_at
		FROM query_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query query log: %w", err)
	}
	defer rows.Close()

	var result []*models.QueryLog
	for rows.Next() {
		e := &models.QueryLog{}
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Question,
			&e.Answer,
			pq.Array(&e.RelatedObservationIDs),
			pq.Array(&e.RelatedSpeciesIDs),
			pq.Array(&e.SourcesUsed),
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query log entry: %w", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating query log rows: %w", err)
	}

	return result, nil
}
