package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/follownet/server/internal/auth"
	"github.com/follownet/server/internal/graph"
	"github.com/follownet/server/internal/repo"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

// respondWithFieldErrors sends a 422 with field-keyed validation detail
func respondWithFieldErrors(w http.ResponseWriter, fields auth.FieldErrors) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fields})
}

// respondServiceError maps service failures to a uniform status scheme:
// 422 validation and self-relationship, 401 authentication, 404 missing
// target, 403 block-forbidden, 500 everything else.
func respondServiceError(w http.ResponseWriter, err error) {
	var fields auth.FieldErrors
	switch {
	case errors.As(err, &fields):
		respondWithFieldErrors(w, fields)
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "email or password is invalid")
	case errors.Is(err, auth.ErrInvalidToken):
		respondWithError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, graph.ErrNotFound), errors.Is(err, repo.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, graph.ErrSelfRelationship):
		respondWithError(w, http.StatusUnprocessableEntity, "you can't do that to yourself")
	case errors.Is(err, graph.ErrBlocked):
		respondWithError(w, http.StatusForbidden, "this action is forbidden by an existing block")
	default:
		log.Printf("internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
