package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/follownet/server/internal/model"
	"github.com/follownet/server/internal/repo"
)

// Metrics receives auth operation outcomes. May be nil.
type Metrics interface {
	RecordLogin(result string)
	RecordRegistration(result string)
	RecordTokenVerification(result string)
}

// Service orchestrates credential verification, session issuance and token
// verification. It is the sole writer of session revocation state.
type Service struct {
	users    repo.UserRepo
	sessions repo.SessionRepo
	hasher   Hasher
	jwt      *JWTService
	metrics  Metrics
}

// NewService creates a new auth service
func NewService(
	users repo.UserRepo,
	sessions repo.SessionRepo,
	hasher Hasher,
	jwt *JWTService,
	metrics Metrics,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		jwt:      jwt,
		metrics:  metrics,
	}
}

// RegisterInput is the payload for Register
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Bio      string
	Image    string
}

// Register creates a new user and issues a session-bound token.
// Blank or duplicate email/username are reported as FieldErrors citing the
// offending field.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, string, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.Password = strings.TrimSpace(in.Password)

	fields := FieldErrors{}
	if in.Email == "" {
		fields.Add("email", "can't be blank")
	}
	if in.Username == "" {
		fields.Add("username", "can't be blank")
	}
	if in.Password == "" {
		fields.Add("password", "can't be blank")
	}
	if len(fields) > 0 {
		s.recordRegistration("invalid")
		return model.User{}, "", fields
	}

	if err := s.checkUniqueness(ctx, in.Email, in.Username); err != nil {
		s.recordRegistration("duplicate")
		return model.User{}, "", err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.recordRegistration("error")
		return model.User{}, "", err
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: digest,
		Bio:          in.Bio,
		Image:        in.Image,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// The pre-check races with concurrent registrations; the unique
		// index is authoritative.
		if fields := uniqueViolationFields(err); fields != nil {
			s.recordRegistration("duplicate")
			return model.User{}, "", fields
		}
		s.recordRegistration("error")
		return model.User{}, "", err
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		s.recordRegistration("error")
		return model.User{}, "", err
	}

	log.Printf("user registered: id=%s username=%s", user.ID, user.Username)
	s.recordRegistration("success")
	return user, token, nil
}

// Login verifies credentials and issues a session-bound token. Unknown email
// and wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, string, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	fields := FieldErrors{}
	if email == "" {
		fields.Add("email", "can't be blank")
	}
	if password == "" {
		fields.Add("password", "can't be blank")
	}
	if len(fields) > 0 {
		s.recordLogin("invalid")
		return model.User{}, "", fields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.recordLogin("failure")
			return model.User{}, "", ErrInvalidCredentials
		}
		s.recordLogin("error")
		return model.User{}, "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordLogin("failure")
		return model.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		s.recordLogin("error")
		return model.User{}, "", err
	}

	s.recordLogin("success")
	return user, token, nil
}

// VerifyToken checks signature and expiry, then cross-checks the embedded
// session. Missing session, revoked session, and any store failure during
// the lookup all fail closed as ErrInvalidToken.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (model.User, error) {
	claims, err := s.jwt.VerifyToken(tokenString)
	if err != nil {
		s.recordVerification("rejected")
		return model.User{}, ErrInvalidToken
	}

	sessionID, err := claims.SessionID()
	if err != nil {
		s.recordVerification("rejected")
		return model.User{}, ErrInvalidToken
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Printf("session lookup failed, treating token as invalid: %v", err)
		}
		s.recordVerification("rejected")
		return model.User{}, ErrInvalidToken
	}
	if session.Revoked {
		s.recordVerification("revoked")
		return model.User{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		s.recordVerification("rejected")
		return model.User{}, ErrInvalidToken
	}

	s.recordVerification("accepted")
	return user, nil
}

// RevokeSession marks a session revoked. Idempotent; unknown ids are not an
// error.
func (s *Service) RevokeSession(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessions.Revoke(ctx, sessionID)
}

// Logout revokes the session embedded in the presented token
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwt.VerifyToken(tokenString)
	if err != nil {
		return ErrInvalidToken
	}
	sessionID, err := claims.SessionID()
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return err
	}
	log.Printf("session revoked: id=%s", sessionID)
	return nil
}

// UpdateUser applies a partial account update. Only non-nil fields of patch
// are written; a supplied-but-blank email, username or password is a
// validation error. No new session is minted; existing tokens stay valid.
func (s *Service) UpdateUser(ctx context.Context, userID uuid.UUID, patch model.UserPatch) (model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	fields := FieldErrors{}

	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			fields.Add("email", "can't be blank")
		} else if email != user.Email {
			taken, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return model.User{}, err
			}
			if taken {
				fields.Add("email", "has already been taken")
			}
			user.Email = email
		}
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			fields.Add("username", "can't be blank")
		} else if username != user.Username {
			taken, err := s.users.ExistsByUsername(ctx, username)
			if err != nil {
				return model.User{}, err
			}
			if taken {
				fields.Add("username", "has already been taken")
			}
			user.Username = username
		}
	}

	if patch.Password != nil {
		password := strings.TrimSpace(*patch.Password)
		if password == "" {
			fields.Add("password", "can't be blank")
		} else {
			digest, err := s.hasher.Hash(password)
			if err != nil {
				return model.User{}, err
			}
			user.PasswordHash = digest
		}
	}

	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Image != nil {
		user.Image = *patch.Image
	}

	if len(fields) > 0 {
		return model.User{}, fields
	}

	if err := s.users.Update(ctx, &user); err != nil {
		if fields := uniqueViolationFields(err); fields != nil {
			return model.User{}, fields
		}
		return model.User{}, err
	}

	return user, nil
}

// issueSession persists a fresh session row and signs a token embedding it.
// Sessions are minted here only, on explicit authentication events.
func (s *Service) issueSession(ctx context.Context, userID uuid.UUID) (string, error) {
	session, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	token, err := s.jwt.SignToken(userID, session.ID)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) checkUniqueness(ctx context.Context, email, username string) error {
	fields := FieldErrors{}

	emailTaken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if emailTaken {
		fields.Add("email", "has already been taken")
	}

	usernameTaken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if usernameTaken {
		fields.Add("username", "has already been taken")
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

// uniqueViolationFields maps a Postgres unique-violation error to the
// offending field, or returns nil if err is something else.
func uniqueViolationFields(err error) FieldErrors {
	constraint := repo.UniqueViolationConstraint(err)
	if constraint == "" {
		return nil
	}
	fields := FieldErrors{}
	switch {
	case strings.Contains(constraint, "email"):
		fields.Add("email", "has already been taken")
	case strings.Contains(constraint, "username"):
		fields.Add("username", "has already been taken")
	default:
		return nil
	}
	return fields
}

func (s *Service) recordLogin(result string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(result)
	}
}

func (s *Service) recordRegistration(result string) {
	if s.metrics != nil {
		s.metrics.RecordRegistration(result)
	}
}

func (s *Service) recordVerification(result string) {
	if s.metrics != nil {
		s.metrics.RecordTokenVerification(result)
	}
}
