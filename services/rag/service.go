package rag

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/models"
	"github.com/bioscout-islamabad/backend/services"
)

// fallbackMinResults is the local-result count below which the external
// searcher is consulted.
const fallbackMinResults = 2

// QueryRecorder receives the query log entry for an answered question.
// Recording is fire-and-forget; failures never affect the answer.
type QueryRecorder interface {
	Record(entry *models.QueryLog)
}

// Service is the RAG orchestrator and the engine's sole public entry point.
// It is stateless: concurrent Answer calls share nothing but the read-only
// corpus and the append-only query log.
type Service struct {
	retriever *Retriever
	searcher  ExternalSearcher
	composer  *Composer
	recorder  QueryRecorder
	logger    *zap.Logger
}

// NewService creates the orchestrator. searcher may be nil to disable the
// external fallback; recorder may be nil, in which case answered questions
// are not logged.
func NewService(
	retriever *Retriever,
	searcher ExternalSearcher,
	composer *Composer,
	recorder QueryRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		retriever: retriever,
		searcher:  searcher,
		composer:  composer,
		recorder:  recorder,
		logger:    logger,
	}
}

// Answer runs the full pipeline for one question: local retrieval, the
// conditional external fallback, composition, and the query log append.
// The only returned error is validation of an empty question; every other
// failure degrades to a well-formed AnswerResult.
func (s *Service) Answer(ctx context.Context, question string, userID *uuid.UUID) (result *AnswerResult, err error) {
	if strings.TrimSpace(question) == "" {
		return nil, services.ErrEmptyQuestion
	}

	// Last line of defense: a panic anywhere below becomes a degraded
	// answer, never an error to the caller.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("answer pipeline panicked",
				zap.Any("panic", r),
				zap.String("question", question))
			result = &AnswerResult{
				Text:    "I'm sorry, I couldn't process your question due to a technical issue. Please try again later.",
				Sources: []string{systemErrorLabel},
			}
			err = nil
		}
	}()

	documents := s.retriever.Retrieve(ctx, question)

	// Too few local hits: append external results after the local ones.
	// Local hits keep their rank; external results are not re-sorted in.
	if len(documents) < fallbackMinResults && s.searcher != nil {
		external, searchErr := s.searcher.Search(ctx, question)
		if searchErr != nil {
			s.logger.Warn("external search failed, answering from local results only",
				zap.Error(searchErr),
				zap.String("question", question))
		} else {
			documents = append(documents, external...)
		}
	}

	answerText := s.composer.Compose(question, documents)

	sources := make([]string, 0, len(documents))
	for _, doc := range documents {
		sources = append(sources, doc.Source)
	}

	observationIDs, speciesIDs := relatedIDs(documents)

	result = &AnswerResult{
		Text:                  answerText,
		Sources:               sources,
		RelatedObservationIDs: observationIDs,
		RelatedSpeciesIDs:     speciesIDs,
	}

	if s.recorder != nil {
		entry := models.NewQueryLog(userID, question, answerText).
			WithRelated(observationIDs, speciesIDs).
			WithSources(sources)
		s.recorder.Record(entry)
	}

	s.logger.Info("question answered",
		zap.String("question", question),
		zap.Int("sources", len(sources)))

	return result, nil
}

// relatedIDs collects the originating record IDs of species- and
// observation-sourced documents, deduplicated, in rank order.
func relatedIDs(documents []Document) (observationIDs, speciesIDs []string) {
	observationIDs = make([]string, 0)
	speciesIDs = make([]string, 0)
	seen := make(map[string]struct{})

	for _, doc := range documents {
		if doc.RecordID == "" {
			continue
		}
		if _, dup := seen[doc.RecordID]; dup {
			continue
		}
		switch doc.Kind {
		case SourceObservation:
			observationIDs = append(observationIDs, doc.RecordID)
			seen[doc.RecordID] = struct{}{}
		case SourceSpecies:
			speciesIDs = append(speciesIDs, doc.RecordID)
			seen[doc.RecordID] = struct{}{}
		}
	}
	return observationIDs, speciesIDs
}
