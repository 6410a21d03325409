package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appmiddleware "github.com/bioscout-islamabad/backend/middleware"
	"github.com/bioscout-islamabad/backend/models"
	"github.com/bioscout-islamabad/backend/services/rag"
	"github.com/bioscout-islamabad/backend/utils"
)

// AskRequest is the body of POST /api/v1/rag/ask
type AskRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
}

// AskResponse is the response shape for an answered question
type AskResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

// TrainRequest is the body of POST /api/v1/rag/train
type TrainRequest struct {
	Documents []TrainDocument `json:"documents" validate:"required,min=1,max=100,dive"`
}

// TrainDocument is one knowledge entry to append to the corpus
type TrainDocument struct {
	Title             string   `json:"title" validate:"required,max=500"`
	Content           string   `json:"content" validate:"required"`
	Source            *string  `json:"source,omitempty"`
	SpeciesReferences []string `json:"species_references,omitempty"`
}

// TrainResponse reports how many entries were appended
type TrainResponse struct {
	Message        string `json:"message"`
	DocumentsAdded int    `json:"documents_added"`
}

// HistoryEntry is one query log entry in the history listing
type HistoryEntry struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
}

// AnswerService defines the interface for the question-answering engine
type AnswerService interface {
	// Answer runs the retrieval pipeline for one question
	Answer(ctx context.Context, question string, userID *uuid.UUID) (*rag.AnswerResult, error)
}

// QueryHistory defines read access to a user's past questions
type QueryHistory interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.QueryLog, error)
}

// KnowledgeIngester defines the write side of the knowledge corpus
type KnowledgeIngester interface {
	Insert(ctx context.Context, entry *models.KnowledgeEntry) error
}

// RAGHandler handles question-answering HTTP requests
type RAGHandler struct {
	answers   AnswerService
	history   QueryHistory
	knowledge KnowledgeIngester
	logger    *zap.Logger
}

// NewRAGHandler creates a new RAGHandler
func NewRAGHandler(answers AnswerService, history QueryHistory, knowledge KnowledgeIngester, logger *zap.Logger) *RAGHandler {
	return &RAGHandler{
		answers:   answers,
		history:   history,
		knowledge: knowledge,
		logger:    logger,
	}
}

// HandleAsk handles POST /api/v1/rag/ask.
// A missing or empty question is the only client error; pipeline failures
// still produce a 200 with a degraded answer.
func (h *RAGHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetReqID(ctx)

	var askReq AskRequest
	if err := json.NewDecoder(r.Body).Decode(&askReq); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&askReq); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	userID := appmiddleware.GetUserIDFromContext(ctx)

	result, err := h.answers.Answer(ctx, askReq.Question, userID)
	if err != nil {
		h.logger.Warn("question rejected",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	response := AskResponse{
		Question: askReq.Question,
		Answer:   result.Text,
		Sources:  result.Sources,
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// HandleHistory handles GET /api/v1/rag/history.
// Requires identity; limit defaults to 50 and is clamped to [1, 200].
func (h *RAGHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetReqID(ctx)

	userID := appmiddleware.GetUserIDFromContext(ctx)
	if userID == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))

	entries, err := h.history.ListByUser(ctx, *userID, limit)
	if err != nil {
		h.logger.Error("failed to list query history",
			zap.String("request_id", requestID),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to load query history")
		return
	}

	history := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		history = append(history, HistoryEntry{
			ID:        entry.ID.String(),
			Question:  entry.Question,
			Answer:    entry.Answer,
			CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if err := utils.WriteOK(w, history); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// HandleTrain handles POST /api/v1/rag/train, appending knowledge entries to
// the corpus. New entries are picked up by the next retrieval automatically
// since the corpus is re-read on every call.
func (h *RAGHandler) HandleTrain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetReqID(ctx)

	var trainReq TrainRequest
	if err := json.NewDecoder(r.Body).Decode(&trainReq); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&trainReq); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	added := 0
	for _, doc := range trainReq.Documents {
		entry := models.NewKnowledgeEntry(doc.Title, doc.Content)
		entry.Source = doc.Source
		if doc.SpeciesReferences != nil {
			entry.SpeciesReferences = doc.SpeciesReferences
		}

		if err := h.knowledge.Insert(ctx, entry); err != nil {
			h.logger.Error("failed to insert knowledge entry",
				zap.String("request_id", requestID),
				zap.String("title", doc.Title),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "Failed to store knowledge entries")
			return
		}
		added++
	}

	h.logger.Info("knowledge corpus extended",
		zap.String("request_id", requestID),
		zap.Int("documents_added", added))

	if err := utils.WriteCreated(w, TrainResponse{
		Message:        "knowledge base updated successfully",
		DocumentsAdded: added,
	}); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// parseLimit parses the history limit query param, defaulting to 50 and
// clamping to [1, 200]
func parseLimit(raw string) int {
	const (
		defaultLimit = 50
		maxLimit     = 200
	)
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
