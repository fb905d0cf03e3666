package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/follownet/server/internal/auth"
	"github.com/follownet/server/internal/middleware"
	"github.com/follownet/server/internal/model"
)

// AuthHandler handles registration, login and account endpoints
type AuthHandler struct {
	authService *auth.Service
	ipLimiter   *middleware.RateLimiter
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, ipLimiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		ipLimiter:   ipLimiter,
	}
}

// registerRequest is the request body for POST /api/users
type registerRequest struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Bio      string `json:"bio"`
		Image    string `json:"image"`
	} `json:"user"`
}

// loginRequest is the request body for POST /api/users/login
type loginRequest struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// updateRequest is the request body for PUT /api/user. Pointer fields
// distinguish "absent" from "supplied but blank".
type updateRequest struct {
	User struct {
		Email    *string `json:"email"`
		Username *string `json:"username"`
		Password *string `json:"password"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

// userResponse is the user object in API responses
type userResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token,omitempty"`
}

func userPayload(user model.User, token string) map[string]userResponse {
	return map[string]userResponse{
		"user": {
			Email:    user.Email,
			Username: user.Username,
			Bio:      user.Bio,
			Image:    user.Image,
			Token:    token,
		},
	}
}

// HandleRegister handles POST /api/users
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.ipLimiter.Allow(middleware.GetIPKey(r)) {
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, userPayload(user, token))
}

// HandleLogin handles POST /api/users/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.ipLimiter.Allow(middleware.GetIPKey(r)) {
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.User.Email, req.User.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, userPayload(user, token))
}

// HandleCurrentUser handles GET /api/user (protected). A pure verification
// read: the presented token is echoed back, no new session is minted.
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok || user == nil {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	token, _ := middleware.GetToken(r.Context())

	respondJSON(w, http.StatusOK, userPayload(*user, token))
}

// HandleUpdateUser handles PUT /api/user (protected). Only supplied fields
// are written; the caller keeps its existing token.
func (h *AuthHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok || user == nil {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.authService.UpdateUser(r.Context(), user.ID, model.UserPatch{
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, _ := middleware.GetToken(r.Context())
	respondJSON(w, http.StatusOK, userPayload(updated, token))
}

// HandleLogout handles POST /api/users/logout (protected). Revokes the
// session embedded in the presented token; other sessions stay valid.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetToken(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
