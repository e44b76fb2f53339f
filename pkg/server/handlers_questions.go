package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/answersai/backend/pkg/auth"
	"github.com/answersai/backend/pkg/store"
)

type createQuestionRequest struct {
	Content string `json:"content"`
}

type questionResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId,omitempty"`
	Content   string                 `json:"content"`
	Answer    string                 `json:"answer"`
	Metadata  store.QuestionMetadata `json:"metadata"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt *time.Time             `json:"updatedAt,omitempty"`
}

// handleCreateQuestion runs the full submission flow: the request has
// already passed authentication and the rate limiter, so it forwards the
// content to the AI provider, persists the answer and returns it. Nothing
// is persisted when the provider fails.
func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if msg := validateQuestionContent(content); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	start := time.Now()

	completion, err := s.provider.Complete(r.Context(), content)
	if err != nil {
		s.metrics.AIFailures.Inc()
		s.logger.Error("AI completion failed", "error", err, "user_id", identity.ID)
		respondError(w, http.StatusServiceUnavailable, "AI service temporarily unavailable. Please try again later.")
		return
	}

	processingTime := time.Since(start).Milliseconds()

	question, err := s.questions.Create(r.Context(), store.CreateParams{
		UserID:  identity.ID,
		Content: content,
		Answer:  completion.Text,
		Metadata: store.QuestionMetadata{
			Model:          completion.Model,
			ProcessingTime: processingTime,
			TokenCount:     completion.TokenCount,
		},
	})
	if err != nil {
		s.logger.Error("failed to store question", "error", err, "user_id", identity.ID)
		respondError(w, http.StatusInternalServerError, "Error processing question")
		return
	}

	s.metrics.QuestionsCreated.Inc()
	s.logger.Info("question answered",
		"question_id", question.ID,
		"user_id", identity.ID,
		"processing_ms", processingTime,
	)

	respondSuccess(w, http.StatusCreated, map[string]any{
		"question": questionResponse{
			ID:        question.ID,
			Content:   question.Content,
			Answer:    question.Answer,
			Metadata:  question.Metadata,
			CreatedAt: question.CreatedAt,
		},
	})
}

// handleGetQuestion returns one of the caller's questions. The lookup is
// scoped to the authenticated user, so someone else's question id yields
// the same 404 as a nonexistent one.
func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionId")
	if !isUUID(questionID) {
		respondError(w, http.StatusBadRequest, "Invalid Question ID format")
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	question, err := s.questions.FindByID(r.Context(), questionID, identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Question not found")
			return
		}
		s.logger.Error("failed to fetch question", "error", err, "question_id", questionID)
		respondError(w, http.StatusInternalServerError, "Error fetching question")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"question": questionResponse{
			ID:        question.ID,
			UserID:    question.UserID,
			Content:   question.Content,
			Answer:    question.Answer,
			Metadata:  question.Metadata,
			CreatedAt: question.CreatedAt,
			UpdatedAt: &question.UpdatedAt,
		},
	})
}
