package models

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeEntry represents a curated knowledge-base article
type KnowledgeEntry struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Title             string    `json:"title" db:"title"`
	Content           string    `json:"content" db:"content"`
	Source            *string   `json:"source,omitempty" db:"source"`
	SpeciesReferences []string  `json:"species_references,omitempty" db:"species_references"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the KnowledgeEntry model
func (KnowledgeEntry) TableName() string {
	return "knowledge_sources"
}

// NewKnowledgeEntry creates a new KnowledgeEntry instance
func NewKnowledgeEntry(title, content string) *KnowledgeEntry {
	now := time.Now()
	return &KnowledgeEntry{
		ID:                uuid.New(),
		Title:             title,
		Content:           content,
		SpeciesReferences: []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
