package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryLog represents one answered question, appended after the answer is
// computed. Entries are write-once; nothing in the system updates them.
type QueryLog struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	UserID                *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Question              string     `json:"question" db:"question"`
	Answer                string     `json:"answer" db:"answer"`
	RelatedObservationIDs []string   `json:"related_observation_ids" db:"related_observation_ids"`
	RelatedSpeciesIDs     []string   `json:"related_species_ids" db:"related_species_ids"`
	SourcesUsed           []string   `json:"sources_used" db:"sources_used"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the QueryLog model
func (QueryLog) TableName() string {
	return "query_log"
}

// NewQueryLog creates a new QueryLog instance
func NewQueryLog(userID *uuid.UUID, question, answer string) *QueryLog {
	return &QueryLog{
		ID:                    uuid.New(),
		UserID:                userID,
		Question:              question,
		Answer:                answer,
		RelatedObservationIDs: []string{},
		RelatedSpeciesIDs:     []string{},
		SourcesUsed:           []string{},
		CreatedAt:             time.Now(),
	}
}

// WithRelated attaches the record IDs of matched species and observations
func (q *QueryLog) WithRelated(observationIDs, speciesIDs []string) *QueryLog {
	q.RelatedObservationIDs = observationIDs
	q.RelatedSpeciesIDs = speciesIDs
	return q
}

// WithSources attaches the ordered source labels used to build the answer
func (q *QueryLog) WithSources(sources []string) *QueryLog {
	q.SourcesUsed = sources
	return q
}
