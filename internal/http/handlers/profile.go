package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/follownet/server/internal/graph"
	"github.com/follownet/server/internal/middleware"
	"github.com/follownet/server/internal/model"
)

// ProfileHandler handles profile and relationship endpoints
type ProfileHandler struct {
	graphService *graph.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(graphService *graph.Service) *ProfileHandler {
	return &ProfileHandler{graphService: graphService}
}

// profileResponse is the profile object in API responses
type profileResponse struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// ackResponse acknowledges block/unblock operations
type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func profilePayload(p model.Profile) map[string]profileResponse {
	return map[string]profileResponse{
		"profile": {
			Username:  p.Username,
			Bio:       p.Bio,
			Image:     p.Image,
			Following: p.Following,
		},
	}
}

// HandleGetProfile handles GET /api/profiles/{username} (optional auth)
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewer, _ := middleware.GetUser(r.Context())

	profile, err := h.graphService.GetProfile(r.Context(), username, viewer)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profilePayload(profile))
}

// HandleFollow handles POST /api/profiles/{username}/follow (protected)
func (h *ProfileHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	actor, username, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	profile, err := h.graphService.Follow(r.Context(), *actor, username)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profilePayload(profile))
}

// HandleUnfollow handles DELETE /api/profiles/{username}/follow (protected)
func (h *ProfileHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	actor, username, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	profile, err := h.graphService.Unfollow(r.Context(), *actor, username)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profilePayload(profile))
}

// HandleBlock handles POST /api/profiles/{username}/block (protected)
func (h *ProfileHandler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	actor, username, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	if err := h.graphService.Block(r.Context(), *actor, username); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ackResponse{
		Success: true,
		Message: fmt.Sprintf("%s has been blocked", username),
	})
}

// HandleUnblock handles DELETE /api/profiles/{username}/block (protected)
func (h *ProfileHandler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	actor, username, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	if err := h.graphService.Unblock(r.Context(), *actor, username); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ackResponse{
		Success: true,
		Message: fmt.Sprintf("%s has been unblocked", username),
	})
}

func (h *ProfileHandler) actorAndTarget(w http.ResponseWriter, r *http.Request) (*model.User, string, bool) {
	actor, ok := middleware.GetUser(r.Context())
	if !ok || actor == nil {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return nil, "", false
	}
	return actor, chi.URLParam(r, "username"), true
}
