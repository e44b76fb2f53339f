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

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// handleCreateUser registers a new account.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if msg := validateEmail(req.Email); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "User creation failed")
		return
	}

	user, err := s.users.Create(r.Context(), req.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		s.logger.Error("failed to create user", "error", err)
		respondError(w, http.StatusInternalServerError, "User creation failed")
		return
	}

	s.logger.Info("user created", "user_id", user.ID)

	respondSuccess(w, http.StatusCreated, map[string]any{
		"user": userResponse{ID: user.ID, Email: user.Email},
	})
}

// handleGetUser returns the authenticated user's own profile. Requests for
// any other user id are refused.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !isUUID(userID) {
		respondError(w, http.StatusBadRequest, "Invalid User ID format")
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	if identity == nil || identity.ID != userID {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	user, err := s.users.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error("failed to fetch user", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "Error fetching user profile")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"user": userResponse{
			ID:        user.ID,
			Email:     user.Email,
			CreatedAt: &user.CreatedAt,
			UpdatedAt: &user.UpdatedAt,
		},
	})
}

type paginationResponse struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// handleListUserQuestions returns one page of the user's own question
// history, newest first.
func (s *Server) handleListUserQuestions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !isUUID(userID) {
		respondError(w, http.StatusBadRequest, "Invalid User ID format")
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	if identity == nil || identity.ID != userID {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	page, limit, msg := parsePagination(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	questions, total, err := s.questions.ListByUser(r.Context(), userID, page, limit)
	if err != nil {
		s.logger.Error("failed to list questions", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "Error fetching user questions")
		return
	}

	items := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		items = append(items, questionResponse{
			ID:        q.ID,
			Content:   q.Content,
			Answer:    q.Answer,
			Metadata:  q.Metadata,
			CreatedAt: q.CreatedAt,
		})
	}

	pages := (total + limit - 1) / limit

	respondSuccess(w, http.StatusOK, map[string]any{
		"questions": items,
		"pagination": paginationResponse{
			Total: total,
			Page:  page,
			Pages: pages,
		},
	})
}
