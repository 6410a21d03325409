package rag

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

const (
	// RelevanceThreshold is the fixed cosine-similarity cutoff below which a
	// candidate document is discarded. Tunable constant, not derived.
	RelevanceThreshold = 0.2

	// TopK bounds the number of documents one retrieval returns.
	TopK = 5

	// observationLimit restricts scoring to the most recent observations.
	observationLimit = 50
)

// Retriever scores and ranks corpus documents against a query embedding.
type Retriever struct {
	corpus *CorpusAccessor
	logger *zap.Logger
}

// NewRetriever creates a Retriever over the given corpus accessor
func NewRetriever(corpus *CorpusAccessor, logger *zap.Logger) *Retriever {
	return &Retriever{
		corpus: corpus,
		logger: logger,
	}
}

// Retrieve embeds the query, scores every corpus document against it, keeps
// documents above RelevanceThreshold, and returns the top TopK sorted by
// descending score. An empty corpus or no document clearing the threshold
// yields an empty slice; that is not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) []Document {
	queryEmbedding := Embed(query)

	var candidates []Document
	candidates = append(candidates, r.scoreKnowledge(ctx, queryEmbedding)...)
	candidates = append(candidates, r.scoreSpecies(ctx, queryEmbedding)...)
	candidates = append(candidates, r.scoreObservations(ctx, queryEmbedding)...)

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > TopK {
		candidates = candidates[:TopK]
	}

	r.logger.Debug("local retrieval complete",
		zap.Int("results", len(candidates)))

	return candidates
}

func (r *Retriever) scoreKnowledge(ctx context.Context, queryEmbedding []float64) []Document {
	var docs []Document
	for _, entry := range r.corpus.AllKnowledge(ctx) {
		text := knowledgeText(entry)
		score := r.score(queryEmbedding, text)
		if score <= RelevanceThreshold {
			continue
		}
		docs = append(docs, Document{
			Text:     text,
			Source:   knowledgeSourceLabel,
			Score:    score,
			Kind:     SourceKnowledge,
			RecordID: entry.ID.String(),
		})
	}
	return docs
}

func (r *Retriever) scoreSpecies(ctx context.Context, queryEmbedding []float64) []Document {
	var docs []Document
	for _, s := range r.corpus.AllSpecies(ctx) {
		text := speciesText(s)
		score := r.score(queryEmbedding, text)
		if score <= RelevanceThreshold {
			continue
		}
		docs = append(docs, Document{
			Text:     text,
			Source:   fmt.Sprintf("Species Database: %s", s.ScientificName),
			Score:    score,
			Kind:     SourceSpecies,
			RecordID: s.ID.String(),
		})
	}
	return docs
}

func (r *Retriever) scoreObservations(ctx context.Context, queryEmbedding []float64) []Document {
	var docs []Document
	for _, o := range r.corpus.RecentObservations(ctx, observationLimit) {
		text := observationText(o)
		score := r.score(queryEmbedding, text)
		if score <= RelevanceThreshold {
			continue
		}
		docs = append(docs, Document{
			Text:     text,
			Source:   fmt.Sprintf("User Observation: %s", o.SpeciesName),
			Score:    score,
			Kind:     SourceObservation,
			RecordID: o.ID.String(),
		})
	}
	return docs
}

// score embeds the document text and computes its similarity to the query.
// Both embeddings share the package Dimension, so a mismatch is unreachable.
func (r *Retriever) score(queryEmbedding []float64, text string) float64 {
	similarity, err := Similarity(queryEmbedding, Embed(text))
	if err != nil {
		panic(err)
	}
	return similarity
}
