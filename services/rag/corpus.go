package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/models"
	"github.com/bioscout-islamabad/backend/repositories"
)

// CorpusAccessor is a read-only view over the three document collections.
// Every fetch failure degrades to an empty slice: retrieval is best-effort
// and an unavailable sub-corpus must never fail the question-answering flow.
type CorpusAccessor struct {
	species      repositories.SpeciesRepository
	knowledge    repositories.KnowledgeRepository
	observations repositories.ObservationRepository
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewCorpusAccessor creates a CorpusAccessor over the given repositories.
// queryTimeout bounds each underlying read; zero disables the bound.
func NewCorpusAccessor(
	species repositories.SpeciesRepository,
	knowledge repositories.KnowledgeRepository,
	observations repositories.ObservationRepository,
	queryTimeout time.Duration,
	logger *zap.Logger,
) *CorpusAccessor {
	return &CorpusAccessor{
		species:      species,
		knowledge:    knowledge,
		observations: observations,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// AllKnowledge returns every knowledge entry, or an empty slice on failure
func (c *CorpusAccessor) AllKnowledge(ctx context.Context) []*models.KnowledgeEntry {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	entries, err := c.knowledge.List(ctx)
	if err != nil {
		c.logger.Warn("knowledge corpus unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return entries
}

// AllSpecies returns every species record, or an empty slice on failure
func (c *CorpusAccessor) AllSpecies(ctx context.Context) []*models.Species {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	species, err := c.species.List(ctx)
	if err != nil {
		c.logger.Warn("species corpus unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return species
}

// RecentObservations returns up to limit observations newest first, or an
// empty slice on failure
func (c *CorpusAccessor) RecentObservations(ctx context.Context, limit int) []*models.Observation {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	observations, err := c.observations.ListRecent(ctx, limit)
	if err != nil {
		c.logger.Warn("observation corpus unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return observations
}

func (c *CorpusAccessor) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.queryTimeout)
}

// Textual projections. Each converts a record to the flat text that gets
// embedded and, when retrieved, quoted in the answer.

func knowledgeText(e *models.KnowledgeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", e.Title)
	fmt.Fprintf(&b, "Content: %s\n", e.Content)
	if e.Source != nil && *e.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", *e.Source)
	}
	return b.String()
}

func speciesText(s *models.Species) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scientific Name: %s\n", s.ScientificName)
	fmt.Fprintf(&b, "Common Names: %s\n", strings.Join(s.CommonNames, ", "))
	fmt.Fprintf(&b, "Type: %s\n", s.Type)
	fmt.Fprintf(&b, "Description: %s\n", s.Description)
	fmt.Fprintf(&b, "Habitat: %s\n", s.Habitat)
	if s.ConservationStatus != nil && *s.ConservationStatus != "" {
		fmt.Fprintf(&b, "Conservation Status: %s\n", *s.ConservationStatus)
	}
	if s.DietaryHabits != nil && *s.DietaryHabits != "" {
		fmt.Fprintf(&b, "Dietary Habits: %s\n", *s.DietaryHabits)
	}
	return b.String()
}

func observationText(o *models.Observation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Species: %s\n", o.SpeciesName)
	fmt.Fprintf(&b, "Location: %.4f, %.4f\n", o.Longitude, o.Latitude)
	if o.Description != nil && *o.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", *o.Description)
	}
	return b.String()
}
