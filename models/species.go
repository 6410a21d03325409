package models

import (
	"time"

	"github.com/google/uuid"
)

// SpeciesType classifies a species record
type SpeciesType string

const (
	SpeciesTypePlant  SpeciesType = "plant"
	SpeciesTypeAnimal SpeciesType = "animal"
	SpeciesTypeFungi  SpeciesType = "fungi"
	SpeciesTypeOther  SpeciesType = "other"
)

// Species represents a curated species record for the Islamabad region
type Species struct {
	ID                 uuid.UUID   `json:"id" db:"id"`
	ScientificName     string      `json:"scientific_name" db:"scientific_name"`
	CommonNames        []string    `json:"common_names" db:"common_names"`
	Type               SpeciesType `json:"type" db:"type"`
	Description        string      `json:"description" db:"description"`
	Habitat            string      `json:"habitat" db:"habitat"`
	IsEndemic          bool        `json:"is_endemic" db:"is_endemic"`
	ConservationStatus *string     `json:"conservation_status,omitempty" db:"conservation_status"`
	DietaryHabits      *string     `json:"dietary_habits,omitempty" db:"dietary_habits"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Species model
func (Species) TableName() string {
	return "species"
}

// NewSpecies creates a new Species instance
func NewSpecies(scientificName string, commonNames []string, speciesType SpeciesType, description, habitat string) *Species {
	now := time.Now()
	return &Species{
		ID:             uuid.New(),
		ScientificName: scientificName,
		CommonNames:    commonNames,
		Type:           speciesType,
		Description:    description,
		Habitat:        habitat,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ValidSpeciesType reports whether t is one of the known species types
func ValidSpeciesType(t SpeciesType) bool {
	switch t {
	case SpeciesTypePlant, SpeciesTypeAnimal, SpeciesTypeFungi, SpeciesTypeOther:
		return true
	}
	return false
}
