package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuestionMetadata describes how an answer was produced.
type QuestionMetadata struct {
	// Model is the model identifier that generated the answer.
	Model string `json:"model"`

	// ProcessingTime is the wall-clock answer latency in milliseconds.
	ProcessingTime int64 `json:"processingTime"`

	// TokenCount is the (approximate) token usage of the answer.
	TokenCount int `json:"tokenCount"`
}

// Question is a stored question with its answer.
type Question struct {
	ID        string
	UserID    string
	Content   string
	Answer    string
	Metadata  QuestionMetadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuestionStore persists questions and their answers.
type QuestionStore struct {
	db *sql.DB
}

// NewQuestionStore creates a QuestionStore on the given connection pool.
func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// CreateParams are the inputs for creating a question record.
type CreateParams struct {
	UserID   string
	Content  string
	Answer   string
	Metadata QuestionMetadata
}

// Create inserts a new question record and returns it with its id and
// creation time filled in.
func (s *QuestionStore) Create(ctx context.Context, params CreateParams) (*Question, error) {
	metadata, err := json.Marshal(params.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	question := &Question{
		ID:       uuid.NewString(),
		UserID:   params.UserID,
		Content:  params.Content,
		Answer:   params.Answer,
		Metadata: params.Metadata,
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO questions (id, user_id, content, answer, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		question.ID, question.UserID, question.Content, question.Answer, metadata,
	).Scan(&question.CreatedAt, &question.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	return question, nil
}

// FindByID returns the question with the given id owned by userID, or
// ErrNotFound. Ownership is part of the lookup so one user can never read
// another's questions.
func (s *QuestionStore) FindByID(ctx context.Context, id, userID string) (*Question, error) {
	question, err := scanQuestion(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, content, answer, metadata, created_at, updated_at
		FROM questions WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query question: %w", err)
	}
	return question, nil
}

// ListByUser returns one page of the user's questions, newest first, along
// with the total count across all pages.
func (s *QuestionStore) ListByUser(ctx context.Context, userID string, page, limit int) ([]*Question, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int
	if err := s.db.QueryRowContext(ctx, `
		SELECT count(*) FROM questions WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content, answer, metadata, created_at, updated_at
		FROM questions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*Question, 0, limit)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return questions, total, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (*Question, error) {
	question := &Question{}
	var metadata []byte

	if err := row.Scan(
		&question.ID, &question.UserID, &question.Content, &question.Answer,
		&metadata, &question.CreatedAt, &question.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &question.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return question, nil
}
