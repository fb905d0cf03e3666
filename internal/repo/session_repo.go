package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/follownet/server/internal/model"
)

// SessionRepo defines the interface for session repository operations
type SessionRepo interface {
	Create(ctx context.Context, userID uuid.UUID) (model.Session, error)
	FindByID(ctx context.Context, id uuid.UUID) (model.Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

type sessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new SessionRepo instance
func NewSessionRepo(db *sql.DB) SessionRepo {
	return &sessionRepo{db: db}
}

// Create inserts a new non-revoked session for the user
func (r *sessionRepo) Create(ctx context.Context, userID uuid.UUID) (model.Session, error) {
	s := model.Session{
		ID:     uuid.New(),
		UserID: userID,
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sessions (id, user_id)
		VALUES ($1, $2)
		RETURNING created_at
	`, s.ID, s.UserID).Scan(&s.CreatedAt)
	if err != nil {
		return model.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return s, nil
}

// FindByID returns the session regardless of revocation status
func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	var s model.Session
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, revoked, created_at
		FROM sessions
		WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.Revoked, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, ErrNotFound
		}
		return model.Session{}, fmt.Errorf("find session: %w", err)
	}
	return s, nil
}

// Revoke marks the session revoked. Revoking an already-revoked or unknown
// session is not an error.
func (r *sessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET revoked = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
