package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/follownet/server/internal/http/handlers"
	"github.com/follownet/server/internal/metrics"
	"github.com/follownet/server/internal/middleware"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	verifier middleware.TokenVerifier,
	collector *metrics.Collector,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	healthHandler := handlers.NewHealthHandler()
	r.Get("/health", healthHandler.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", authHandler.HandleRegister)
		r.Post("/users/login", authHandler.HandleLogin)

		// Protected routes (require valid bearer token)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequiredAuth(verifier))
			r.Post("/users/logout", authHandler.HandleLogout)
			r.Get("/user", authHandler.HandleCurrentUser)
			r.Put("/user", authHandler.HandleUpdateUser)
			r.Post("/profiles/{username}/follow", profileHandler.HandleFollow)
			r.Delete("/profiles/{username}/follow", profileHandler.HandleUnfollow)
			r.Post("/profiles/{username}/block", profileHandler.HandleBlock)
			r.Delete("/profiles/{username}/block", profileHandler.HandleUnblock)
		})

		// Optional auth: anonymous viewers get following=false
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(verifier))
			r.Get("/profiles/{username}", profileHandler.HandleGetProfile)
		})
	})

	return r
}
