package models

import (
	"time"

	"github.com/google/uuid"
)

// Observation represents a crowd-submitted sighting of a species
type Observation struct {
	ID                       uuid.UUID  `json:"id" db:"id"`
	UserID                   *uuid.UUID `json:"user_id,omitempty" db:"user_id"` // Null for anonymous submissions
	SpeciesName              string     `json:"species_name" db:"species_name"`
	CommonNames              []string   `json:"common_names" db:"common_names"`
	Longitude                float64    `json:"longitude" db:"longitude"`
	Latitude                 float64    `json:"latitude" db:"latitude"`
	ImageURL                 string     `json:"image_url,omitempty" db:"image_url"`
	Type                     *string    `json:"type,omitempty" db:"type"`
	Description              *string    `json:"description,omitempty" db:"description"`
	IdentificationConfidence float64    `json:"identification_confidence" db:"identification_confidence"`
	Verified                 bool       `json:"verified" db:"verified"`
	CreatedAt                time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Observation model
func (Observation) TableName() string {
	return "observations"
}

// NewObservation creates a new Observation instance
func NewObservation(speciesName string, longitude, latitude float64) *Observation {
	now := time.Now()
	return &Observation{
		ID:          uuid.New(),
		SpeciesName: speciesName,
		Longitude:   longitude,
		Latitude:    latitude,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
