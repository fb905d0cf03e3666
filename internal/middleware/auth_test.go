package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/follownet/server/internal/model"
)

// fakeVerifier accepts exactly one token string
type fakeVerifier struct {
	valid string
	user  model.User
}

func (v *fakeVerifier) VerifyToken(_ context.Context, tokenString string) (model.User, error) {
	if tokenString == v.valid {
		return v.user, nil
	}
	return model.User{}, errors.New("invalid token")
}

func newVerifier() *fakeVerifier {
	return &fakeVerifier{
		valid: "good-token",
		user:  model.User{ID: uuid.New(), Username: "alice"},
	}
}

// echoHandler records whether it ran and which user it saw
type echoHandler struct {
	called bool
	user   *model.User
}

func (h *echoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.user, _ = GetUser(r.Context())
	w.WriteHeader(http.StatusOK)
}

func doRequest(t *testing.T, mw func(http.Handler) http.Handler, authHeader string) (*httptest.ResponseRecorder, *echoHandler) {
	t.Helper()
	inner := &echoHandler{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)
	return rec, inner
}

func TestRequiredAuth_validToken(t *testing.T) {
	v := newVerifier()
	rec, inner := doRequest(t, RequiredAuth(v), "Bearer good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !inner.called || inner.user == nil || inner.user.Username != "alice" {
		t.Error("handler should run with the resolved user attached")
	}
}

func TestRequiredAuth_tokenScheme(t *testing.T) {
	// The legacy "Token" scheme is accepted alongside "Bearer"
	v := newVerifier()
	rec, _ := doRequest(t, RequiredAuth(v), "Token good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for Token scheme, got %d", rec.Code)
	}
}

func TestRequiredAuth_missingToken(t *testing.T) {
	v := newVerifier()
	rec, inner := doRequest(t, RequiredAuth(v), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if inner.called {
		t.Error("handler must not run without a token")
	}
}

func TestRequiredAuth_invalidToken(t *testing.T) {
	v := newVerifier()
	rec, inner := doRequest(t, RequiredAuth(v), "Bearer bad-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if inner.called {
		t.Error("handler must not run with an invalid token")
	}
}

func TestRequiredAuth_malformedHeader(t *testing.T) {
	v := newVerifier()
	for _, header := range []string{"good-token", "Basic good-token", "Bearer "} {
		rec, _ := doRequest(t, RequiredAuth(v), header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestOptionalAuth_absentTokenIsAnonymous(t *testing.T) {
	v := newVerifier()
	rec, inner := doRequest(t, OptionalAuth(v), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !inner.called {
		t.Fatal("handler should run for anonymous requests")
	}
	if inner.user != nil {
		t.Error("anonymous request should carry no user")
	}
}

func TestOptionalAuth_invalidTokenStillRejected(t *testing.T) {
	// Optionality covers absence, not invalidity
	v := newVerifier()
	rec, inner := doRequest(t, OptionalAuth(v), "Bearer bad-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if inner.called {
		t.Error("handler must not run with an invalid token")
	}
}

func TestOptionalAuth_validToken(t *testing.T) {
	v := newVerifier()
	rec, inner := doRequest(t, OptionalAuth(v), "Bearer good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if inner.user == nil || inner.user.Username != "alice" {
		t.Error("valid token should attach the user")
	}
}
