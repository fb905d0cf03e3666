package graph

import "errors"

var (
	// ErrNotFound means the target username does not resolve to a user
	ErrNotFound = errors.New("graph: user not found")

	// ErrSelfRelationship means actor and target are the same user
	ErrSelfRelationship = errors.New("graph: cannot create a relationship with yourself")

	// ErrBlocked means a block edge in either direction forbids the operation
	ErrBlocked = errors.New("graph: operation forbidden by an existing block")
)
