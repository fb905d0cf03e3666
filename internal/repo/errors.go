package repo

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("repo: not found")

const uniqueViolation = "23505"

// UniqueViolationConstraint returns the violated constraint name if err is a
// Postgres unique violation, or "" otherwise.
func UniqueViolationConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint
	}
	return ""
}
