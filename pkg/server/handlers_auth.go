package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/answersai/backend/pkg/auth"
	"github.com/answersai/backend/pkg/store"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// handleLogin verifies credentials and issues a token pair. Unknown email
// and wrong password produce the same response so the endpoint does not
// leak which accounts exist.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error("failed to look up user", "error", err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if !auth.ComparePassword(user.Password, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tokens, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		s.logger.Error("failed to issue tokens", "error", err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	respondSuccess(w, http.StatusOK, loginResponse{
		User:         userResponse{ID: user.ID, Email: user.Email},
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleRefresh exchanges a valid refresh token for a fresh token pair.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "Refresh token required")
		return
	}

	claims, err := s.refreshVerify.Verify(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			respondError(w, http.StatusUnauthorized, "Refresh token expired")
			return
		}
		respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := s.users.FindByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "User not found")
			return
		}
		s.logger.Error("failed to look up user", "error", err)
		respondError(w, http.StatusInternalServerError, "Token refresh failed")
		return
	}

	tokens, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		s.logger.Error("failed to issue tokens", "error", err)
		respondError(w, http.StatusInternalServerError, "Token refresh failed")
		return
	}

	respondSuccess(w, http.StatusOK, tokens)
}

// handleLogout acknowledges the logout. Tokens are stateless so there is
// nothing to revoke server-side; clients discard their copies.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Message: "Logged out successfully",
	})
}
