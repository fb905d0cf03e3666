package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/follownet/server/internal/model"
)

// RelationshipRepo defines the interface for relationship edge operations.
// CreateEdge and RemoveEdge are idempotent with respect to current state.
type RelationshipRepo interface {
	EdgeExists(ctx context.Context, subjectID, targetID uuid.UUID, kind model.RelationKind) (bool, error)
	CreateEdge(ctx context.Context, subjectID, targetID uuid.UUID, kind model.RelationKind) error
	RemoveEdge(ctx context.Context, subjectID, targetID uuid.UUID, kind model.RelationKind) error
	ListOutgoing(ctx context.Context, subjectID uuid.UUID, kind model.RelationKind) ([]uuid.UUID, error)
	// BlockAtomic creates the block edge and removes both follow directions
	// in a single transaction.
	BlockAtomic(ctx context.Context, subjectID, targetID uuid.UUID) error
}

type relationshipRepo struct {
	db *sql.DB
}

// NewRelationshipRepo creates a new RelationshipRepo instance
func NewRelationshipRepo(db *sql.DB) RelationshipRepo {
	return &relationshipRepo{db: db}
}

// EdgeExists reports whether the directed edge (subject, target, kind) exists
func (r *relationshipRepo) EdgeExists(ctx context.Context, subjectID, targetID uuid.UUID, kind model.RelationKind) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM relationships
			WHERE subject_id = $1 AND target_id = $2 AND kind = $3
		)
	`, subjectID, targetID, string(kind)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query edge existence: %w", err)
	}
	return exists, nil
}

// CreateEdge inserts the edge if absent (ON CONFLICT DO NOTHING)
func (r *relationshipRepo) CreateEdge(ctx context.Context, subjectID, targetID uuid.UUID, kind model.RelationKind) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO relationships (subject_id, target_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (subject_id, target_id, kind) DO NOTHING
	`, subjectID, targetID, string(kind))
	if err != nil {
		return fmt.Errorf("insert edge: %w", err)
	}
	return nil
}

// RemoveEdge deletes the edge if present
func (r *relationshipRepo) RemoveEdge(ctx context.Context, subjectID, targetID uuid.UUID, kind model.RelationKind) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM relationships
		WHERE subject_id = $1 AND target_id = $2 AND kind = $3
	`, subjectID, targetID, string(kind))
	if err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	return nil
}

// ListOutgoing returns target ids of all outgoing edges of the given kind
func (r *relationshipRepo) ListOutgoing(ctx context.Context, subjectID uuid.UUID, kind model.RelationKind) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT target_id FROM relationships
		WHERE subject_id = $1 AND kind = $2
		ORDER BY created_at
	`, subjectID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list outgoing edges: %w", err)
	}
	defer rows.Close()

	var targets []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan target id: %w", err)
		}
		targets = append(targets, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outgoing edges: %w", err)
	}
	return targets, nil
}

// BlockAtomic bundles the block-edge insert and the removal of both follow
// directions into one transaction, so a concurrent follow cannot land
// between the clear and the insert.
func (r *relationshipRepo) BlockAtomic(ctx context.Context, subjectID, targetID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin block tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM relationships
		WHERE kind = $3
		  AND ((subject_id = $1 AND target_id = $2) OR (subject_id = $2 AND target_id = $1))
	`, subjectID, targetID, string(model.RelationFollow))
	if err != nil {
		return fmt.Errorf("clear follow edges: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO relationships (subject_id, target_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (subject_id, target_id, kind) DO NOTHING
	`, subjectID, targetID, string(model.RelationBlock))
	if err != nil {
		return fmt.Errorf("insert block edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit block tx: %w", err)
	}
	return nil
}
