// Package server exposes the REST API over chi. It wires authentication,
// rate limiting, persistence and the AI provider into HTTP handlers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/answersai/backend/pkg/auth"
	"github.com/answersai/backend/pkg/config"
	"github.com/answersai/backend/pkg/llms"
	"github.com/answersai/backend/pkg/observability"
	"github.com/answersai/backend/pkg/ratelimit"
	"github.com/answersai/backend/pkg/store"
)

// UserStore is the slice of the persistence layer the handlers need for
// accounts. *store.UserStore satisfies it; tests substitute fakes.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*store.User, error)
	FindByEmail(ctx context.Context, email string) (*store.User, error)
	FindByID(ctx context.Context, id string) (*store.User, error)
}

// QuestionStore is the persistence surface for questions.
// *store.QuestionStore satisfies it.
type QuestionStore interface {
	Create(ctx context.Context, params store.CreateParams) (*store.Question, error)
	FindByID(ctx context.Context, id, userID string) (*store.Question, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*store.Question, int, error)
}

var (
	_ UserStore     = (*store.UserStore)(nil)
	_ QuestionStore = (*store.QuestionStore)(nil)
)

// Dependencies carries everything the server needs. All fields except
// Limiter are required.
type Dependencies struct {
	Config        *config.Config
	Logger        *slog.Logger
	Users         UserStore
	Questions     QuestionStore
	Issuer        *auth.Issuer
	Authenticator *auth.Authenticator
	RefreshVerify *auth.Verifier
	Limiter       *ratelimit.SlidingWindowLimiter
	Provider      llms.Provider
	Metrics       *observability.Metrics
}

// Server is the HTTP front of the application.
type Server struct {
	cfg           *config.Config
	logger        *slog.Logger
	users         UserStore
	questions     QuestionStore
	issuer        *auth.Issuer
	authenticator *auth.Authenticator
	refreshVerify *auth.Verifier
	limiter       *ratelimit.SlidingWindowLimiter
	provider      llms.Provider
	metrics       *observability.Metrics

	httpServer *http.Server
}

// New creates a Server from its dependencies.
func New(deps Dependencies) (*Server, error) {
	switch {
	case deps.Config == nil:
		return nil, fmt.Errorf("config is required")
	case deps.Users == nil || deps.Questions == nil:
		return nil, fmt.Errorf("stores are required")
	case deps.Issuer == nil || deps.Authenticator == nil || deps.RefreshVerify == nil:
		return nil, fmt.Errorf("auth components are required")
	case deps.Provider == nil:
		return nil, fmt.Errorf("AI provider is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	return &Server{
		cfg:           deps.Config,
		logger:        logger,
		users:         deps.Users,
		questions:     deps.Questions,
		issuer:        deps.Issuer,
		authenticator: deps.Authenticator,
		refreshVerify: deps.RefreshVerify,
		limiter:       deps.Limiter,
		provider:      deps.Provider,
		metrics:       metrics,
	}, nil
}

// Router builds the full route tree. Exposed so tests can drive handlers
// through httptest without binding a socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(corsMiddleware(s.cfg.Server.CORS))

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.metrics.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticator.Middleware)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/users/{userId}", s.handleGetUser)
			r.Get("/users/{userId}/questions", s.handleListUserQuestions)
			r.Get("/questions/{questionId}", s.handleGetQuestion)

			r.With(ratelimit.Middleware(s.limiter)).Post("/questions", s.handleCreateQuestion)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Route not found")
	})

	return r
}

// Start runs the HTTP server until it fails or Stop is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Server.Address(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("http server starting", "address", s.cfg.Server.Address())

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully, letting in-flight requests finish
// within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down http server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
