package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// User is a stored account. Password holds the bcrypt hash, never the
// plaintext.
type User struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserStore persists user accounts.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a UserStore on the given connection pool.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user with the given email and password hash.
// Returns ErrEmailTaken when the email is already registered.
func (s *UserStore) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	user := &User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: passwordHash,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		user.ID, user.Email, user.Password,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// FindByEmail returns the user with the given email, or ErrNotFound.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, `
		SELECT id, email, password, created_at, updated_at
		FROM users WHERE email = $1`, email)
}

// FindByID returns the user with the given id, or ErrNotFound.
func (s *UserStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, `
		SELECT id, email, password, created_at, updated_at
		FROM users WHERE id = $1`, id)
}

func (s *UserStore) findOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}
