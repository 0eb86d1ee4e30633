package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devconnect/backend/internal/config"
	"github.com/devconnect/backend/internal/events"
	"github.com/devconnect/backend/internal/handlers"
	appMiddleware "github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/services"
)

type backend struct {
	users    services.UserService
	profiles services.ProfileService
	posts    services.PostService
	accounts services.AccountService
	close    func(context.Context) error
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	be, err := newBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	// Identity: tokens issued by this service, plus Firebase ID tokens when configured.
	tokens := appMiddleware.NewJWTVerifier(cfg.JWTSecret, cfg.JWTExpiration)
	verifier := appMiddleware.ChainVerifier{tokens}
	if cfg.FirebaseProjectID != "" {
		fb, err := appMiddleware.NewFirebaseVerifier(context.Background(), appMiddleware.FirebaseAuthConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		}, be.users)
		if err != nil {
			log.Printf("Warning: failed to initialize Firebase Auth client: %v", err)
		} else {
			verifier = append(verifier, fb)
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NatsURL != "" {
		np, err := events.NewNatsPublisher(cfg.NatsURL)
		if err != nil {
			log.Printf("Warning: NATS unavailable, events disabled: %v", err)
		} else {
			publisher = np
		}
	}
	defer publisher.Close()

	limiter, closeLimiter := newLimiter(ctx, cfg)
	defer closeLimiter()

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:           handlers.NewAuthHandler(be.users, tokens, cfg.RequestTimeout),
		Profiles:       handlers.NewProfileHandler(be.profiles, cfg.RequestTimeout),
		Accounts:       handlers.NewAccountHandler(be.accounts, cfg.RequestTimeout),
		Posts:          handlers.NewPostHandler(be.posts, publisher, cfg.RequestTimeout),
		Verifier:       verifier,
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("devconnect API server starting on %s (store=%s)", cfg.ServerAddress, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	log.Println("Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if err := be.close(shutdownCtx); err != nil {
		log.Printf("Store close: %v", err)
	}
}

func newBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store, err := services.NewMemoryStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		users := services.NewMemoryUserService(store)
		return &backend{
			users:    users,
			profiles: services.NewMemoryProfileService(store),
			posts:    services.NewMemoryPostService(store, users),
			accounts: services.NewMemoryAccountService(store),
			close:    func(context.Context) error { return nil },
		}, nil

	default:
		store, err := services.NewStore(ctx, services.StoreConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDB,
			TLS:      cfg.MongoTLS,
		})
		if err != nil {
			return nil, err
		}
		users := services.NewMongoUserService(store)
		return &backend{
			users:    users,
			profiles: services.NewMongoProfileService(store),
			posts:    services.NewMongoPostService(store, users),
			accounts: services.NewMongoAccountService(store),
			close:    store.Close,
		}, nil
	}
}

func newLimiter(ctx context.Context, cfg *config.Config) (appMiddleware.Limiter, func()) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: invalid REDIS_URL, using in-process rate limiting: %v", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				log.Printf("Warning: Redis connection failed, using in-process rate limiting: %v", err)
				client.Close()
			} else {
				log.Printf("Connected to Redis for rate limiting")
				return appMiddleware.NewRedisLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow), func() { client.Close() }
			}
		}
	}
	return appMiddleware.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow), func() {}
}
