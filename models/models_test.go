package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Species tests

func TestNewSpecies(t *testing.T) {
	s := NewSpecies("Aquila rapax", []string{"Tawny Eagle"}, SpeciesTypeAnimal,
		"A large brown eagle", "Margalla Hills grasslands")

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, "Aquila rapax", s.ScientificName)
	assert.Equal(t, []string{"Tawny Eagle"}, s.CommonNames)
	assert.Equal(t, SpeciesTypeAnimal, s.Type)
	assert.False(t, s.IsEndemic)
	assert.Nil(t, s.ConservationStatus)
	assert.False(t, s.CreatedAt.IsZero())
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestSpecies_TableName(t *testing.T) {
	assert.Equal(t, "species", Species{}.TableName())
}

func TestValidSpeciesType(t *testing.T) {
	for _, valid := range []SpeciesType{SpeciesTypePlant, SpeciesTypeAnimal, SpeciesTypeFungi, SpeciesTypeOther} {
		assert.True(t, ValidSpeciesType(valid), string(valid))
	}
	assert.False(t, ValidSpeciesType("mineral"))
	assert.False(t, ValidSpeciesType(""))
}

// Observation tests

func TestNewObservation(t *testing.T) {
	o := NewObservation("Panthera pardus", 73.0479, 33.7294)

	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.Equal(t, "Panthera pardus", o.SpeciesName)
	assert.Equal(t, 73.0479, o.Longitude)
	assert.Equal(t, 33.7294, o.Latitude)
	assert.Nil(t, o.UserID)
	assert.False(t, o.Verified)
	assert.False(t, o.CreatedAt.IsZero())
}

func TestObservation_TableName(t *testing.T) {
	assert.Equal(t, "observations", Observation{}.TableName())
}

// KnowledgeEntry tests

func TestNewKnowledgeEntry(t *testing.T) {
	e := NewKnowledgeEntry("Birds of Margalla", "Over 300 species recorded")

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, "Birds of Margalla", e.Title)
	assert.Equal(t, "Over 300 species recorded", e.Content)
	assert.Nil(t, e.Source)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestKnowledgeEntry_TableName(t *testing.T) {
	assert.Equal(t, "knowledge_sources", KnowledgeEntry{}.TableName())
}

// QueryLog tests

func TestNewQueryLog(t *testing.T) {
	userID := uuid.New()
	q := NewQueryLog(&userID, "What birds live here?", "Here's what I found")

	assert.NotEqual(t, uuid.Nil, q.ID)
	require.NotNil(t, q.UserID)
	assert.Equal(t, userID, *q.UserID)
	assert.Equal(t, "What birds live here?", q.Question)
	assert.Equal(t, "Here's what I found", q.Answer)
	assert.False(t, q.CreatedAt.IsZero())
}

func TestNewQueryLog_Anonymous(t *testing.T) {
	q := NewQueryLog(nil, "question", "answer")
	assert.Nil(t, q.UserID)
}

func TestQueryLog_Builders(t *testing.T) {
	q := NewQueryLog(nil, "q", "a").
		WithRelated([]string{"obs1"}, []string{"sp1", "sp2"}).
		WithSources([]string{"Internal Knowledge Base"})

	assert.Equal(t, []string{"obs1"}, q.RelatedObservationIDs)
	assert.Equal(t, []string{"sp1", "sp2"}, q.RelatedSpeciesIDs)
	assert.Equal(t, []string{"Internal Knowledge Base"}, q.SourcesUsed)
}

func TestQueryLog_TableName(t *testing.T) {
	assert.Equal(t, "query_log", QueryLog{}.TableName())
}

func TestQueryLog_JSONOmitsEmptyUser(t *testing.T) {
	data, err := json.Marshal(NewQueryLog(nil, "q", "a"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "user_id")
}
