package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered identity
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Bio          string
	Image        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents one login event. Revocation is one-way: once Revoked
// is set it never transitions back.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Revoked   bool
	CreatedAt time.Time
}

// RelationKind is the type of a directed relationship edge
type RelationKind string

const (
	RelationFollow RelationKind = "follow"
	RelationBlock  RelationKind = "block"
)

// Relationship is a directed, typed edge between two users.
// At most one edge exists per (subject, target, kind).
type Relationship struct {
	SubjectID uuid.UUID
	TargetID  uuid.UUID
	Kind      RelationKind
	CreatedAt time.Time
}

// Profile is the viewer-relative public view of a user
type Profile struct {
	Username  string
	Bio       string
	Image     string
	Following bool
}

// UserPatch carries a partial account update. Nil fields are "not supplied"
// and left untouched; a non-nil pointer to an empty string is an explicit
// (and for required fields invalid) value.
type UserPatch struct {
	Email    *string
	Username *string
	Password *string
	Bio      *string
	Image    *string
}
