package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSignAndVerifyToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()
	sessionID := uuid.New()

	token, err := svc.SignToken(userID, sessionID)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id mismatch: got %s want %s", claims.UserID, userID)
	}
	sid, err := claims.SessionID()
	if err != nil {
		t.Fatalf("SessionID failed: %v", err)
	}
	if sid != sessionID {
		t.Errorf("session id mismatch: got %s want %s", sid, sessionID)
	}
}

func TestVerifyToken_expired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)
	token, err := svc.SignToken(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}
	if _, err := svc.VerifyToken(token); err == nil {
		t.Error("expired token should not verify")
	}
}

func TestVerifyToken_wrongSecret(t *testing.T) {
	signer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := signer.SignToken(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}
	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("token signed with a different secret should not verify")
	}
}

func TestVerifyToken_tampered(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, err := svc.SignToken(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected JWT shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := svc.VerifyToken(tampered); err == nil {
		t.Error("tampered token should not verify")
	}
}

func TestVerifyToken_malformed(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.VerifyToken(bad); err == nil {
			t.Errorf("malformed token %q should not verify", bad)
		}
	}
}

func TestSessionID_badClaim(t *testing.T) {
	claims := &TokenClaims{}
	claims.RegisteredClaims.ID = "not-a-uuid"
	if _, err := claims.SessionID(); err == nil {
		t.Error("non-uuid jti should not parse")
	}
}
