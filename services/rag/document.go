package rag

// SourceKind identifies which corpus (or external capability) a document
// came from.
type SourceKind string

const (
	SourceKnowledge   SourceKind = "knowledge"
	SourceSpecies     SourceKind = "species"
	SourceObservation SourceKind = "observation"
	SourceInternet    SourceKind = "internet"
)

// Source labels exposed to callers for citation.
const (
	knowledgeSourceLabel = "Internal Knowledge Base"
	internetSourceLabel  = "Internet Search Result"
	systemErrorLabel     = "System Error"
)

// Document is an ephemeral scored text unit produced during one retrieval
// call. It is never persisted; Score is populated only after scoring.
type Document struct {
	Text     string
	Source   string     // Provenance label for citation
	Score    float64    // Cosine similarity in [-1, 1]
	Kind     SourceKind // Which corpus produced this document
	RecordID string     // ID of the originating record; empty for internet results
}

// AnswerResult is the orchestrator's product for a single question.
type AnswerResult struct {
	Text                  string
	Sources               []string // Order-preserving, duplicates allowed
	RelatedObservationIDs []string
	RelatedSpeciesIDs     []string
}
