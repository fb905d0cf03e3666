package tests

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/follownet/server/internal/auth"
	"github.com/follownet/server/internal/config"
	"github.com/follownet/server/internal/db"
	"github.com/follownet/server/internal/graph"
	httphandler "github.com/follownet/server/internal/http"
	"github.com/follownet/server/internal/http/handlers"
	"github.com/follownet/server/internal/metrics"
	"github.com/follownet/server/internal/middleware"
	"github.com/follownet/server/internal/repo"
	_ "github.com/lib/pq"
)

func TestMain(m *testing.M) {
	// Set env if unset. Do NOT set DATABASE_URL; integration tests skip if missing.
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "test-jwt-secret-at-least-32-characters-long")
	}

	code := m.Run()
	os.Exit(code)
}

// testServer holds the server and DB for integration tests
type testServer struct {
	Server *httptest.Server
	DB     *sql.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err, "config load must succeed for integration test")

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	require.NoError(t, err, "database open must succeed; check DATABASE_URL and that test DB exists")
	t.Cleanup(func() { database.Close() })

	err = RunMigrations(database)
	require.NoError(t, err, "migrations must run successfully")

	userRepo := repo.NewUserRepo(database)
	sessionRepo := repo.NewSessionRepo(database)
	relationshipRepo := repo.NewRelationshipRepo(database)

	collector := metrics.NewCollector()
	hasher := auth.NewBcryptHasher(4) // low cost for tests
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(userRepo, sessionRepo, hasher, jwtService, collector)
	graphService := graph.NewService(userRepo, relationshipRepo, collector)

	loginLimiter := middleware.NewRateLimiter(1000, 1000) // never limits in tests
	authHandler := handlers.NewAuthHandler(authService, loginLimiter)
	profileHandler := handlers.NewProfileHandler(graphService)

	router := httphandler.NewRouter(authHandler, profileHandler, authService, collector)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{Server: server, DB: database}
}

func (s *testServer) BaseURL() string { return s.Server.URL }

func (s *testServer) Truncate(t *testing.T) {
	t.Helper()
	require.NoError(t, TruncateAll(context.Background(), s.DB), "truncate tables")
}

// userEnvelope matches {user: {...}} responses
type userEnvelope struct {
	User struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Bio      string `json:"bio"`
		Image    string `json:"image"`
		Token    string `json:"token"`
	} `json:"user"`
}

// profileEnvelope matches {profile: {...}} responses
type profileEnvelope struct {
	Profile struct {
		Username  string `json:"username"`
		Bio       string `json:"bio"`
		Image     string `json:"image"`
		Following bool   `json:"following"`
	} `json:"profile"`
}

// ackEnvelope matches block/unblock acknowledgements
type ackEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// fieldErrorsEnvelope matches 422 validation bodies
type fieldErrorsEnvelope struct {
	Errors map[string][]string `json:"errors"`
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}
