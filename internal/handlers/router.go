package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appMiddleware "github.com/devconnect/backend/internal/middleware"
)

type RouterConfig struct {
	Auth     *AuthHandler
	Profiles *ProfileHandler
	Accounts *AccountHandler
	Posts    *PostHandler

	Verifier       appMiddleware.TokenVerifier
	Limiter        appMiddleware.Limiter
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/users", cfg.Auth.Register)
		r.Post("/auth", cfg.Auth.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(cfg.Verifier))
			if cfg.Limiter != nil {
				r.Use(appMiddleware.RateLimit(cfg.Limiter))
			}

			r.Get("/auth", cfg.Auth.Me)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", cfg.Profiles.ListProfiles)
				r.Post("/", cfg.Profiles.UpsertProfile)
				r.Delete("/", cfg.Accounts.DeleteAccount)
				r.Get("/me", cfg.Profiles.GetMyProfile)
				r.Get("/user/{userId}", cfg.Profiles.GetProfileByUserID)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", cfg.Posts.ListPosts)
				r.Post("/", cfg.Posts.CreatePost)
				r.Get("/{id}", cfg.Posts.GetPost)
				r.Delete("/{id}", cfg.Posts.DeletePost)

				r.Patch("/like/{id}", cfg.Posts.LikePost)
				r.Patch("/unlike/{id}", cfg.Posts.UnlikePost)
				r.Patch("/comment/{id}", cfg.Posts.AddComment)
				r.Patch("/comment/{id}/{commentId}", cfg.Posts.DeleteComment)
			})
		})
	})

	return r
}
