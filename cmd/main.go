/**
 * @description
 * This is the main entry point for paydesk. It is responsible for initializing
 * all components of the service: configuration, the record store (PostgreSQL,
 * or the seeded in-memory store in demo mode), the RabbitMQ event producer,
 * the Redis-backed login rate limiter, the session token service, the static
 * credential store, the lifecycle engine, and the HTTP server.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP serving.
 * - github.com/go-chi/chi/v5 (via internal/api): HTTP routing.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/joho/godotenv: Optional .env loading for local development.
 * - github.com/redis/go-redis/v9: Login rate limiting.
 * - internal/api, internal/app, internal/auth, internal/config, internal/store,
 *   pkg/rabbitmq: Internal packages for the service.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/klopper/paydesk/internal/api"
	"github.com/klopper/paydesk/internal/app"
	"github.com/klopper/paydesk/internal/auth"
	"github.com/klopper/paydesk/internal/config"
	"github.com/klopper/paydesk/internal/domain"
	"github.com/klopper/paydesk/internal/store"
	"github.com/klopper/paydesk/pkg/rabbitmq"
)

func main() {
	// Load .env file for local development. In production, env vars are set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("level=info component=bootstrap msg=\"no .env file found; using environment variables\"")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if cfg.SessionSigningSecret == "" {
		// Boot anyway: the token service reports the missing secret as a caught
		// configuration error at the point of use instead of crashing requests.
		log.Printf("level=warn component=bootstrap msg=\"session signing secret not configured; logins will fail\" env=SESSION_SIGNING_SECRET")
	}

	log.Printf("level=info component=bootstrap msg=\"starting paydesk\" port=%s env=%s", cfg.ServerPort, cfg.AppEnv)

	// Pick the record store: PostgreSQL when configured, otherwise the seeded
	// in-memory store (demo mode; data resets on restart).
	var repository store.Repository
	if cfg.DatabaseURL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
		}
		poolConfig.MaxConns = 10
		poolConfig.MinConns = 2
		poolConfig.MaxConnLifetime = 30 * time.Minute
		poolConfig.MaxConnIdleTime = 5 * time.Minute

		// Disable prepared statement caching to prevent conflicts
		poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

		dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
		}
		defer dbpool.Close()

		pgRepo := store.NewPostgresRepository(dbpool)
		if err := pgRepo.Ping(context.Background()); err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database ping failed\" err=%v", err)
		}
		repository = pgRepo
		log.Println("level=info component=bootstrap msg=\"database connected\"")
	} else {
		repository = store.NewSeededMemoryRepository()
		log.Println("level=warn component=bootstrap msg=\"no database configured; using seeded in-memory store\" env=DATABASE_URL")
	}

	// Initialize the RabbitMQ producer for lifecycle events. The broker is
	// optional; without it transitions proceed and events are dropped.
	var eventProducer rabbitmq.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"rabbitmq url missing; lifecycle events disabled\" env=RABBITMQ_URL")
		eventProducer = &rabbitmq.EventProducerFallback{}
	} else if producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL); err != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
		eventProducer = &rabbitmq.EventProducerFallback{}
	} else {
		defer producer.Close()
		eventProducer = producer
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	// Redis-backed login throttling; optional at boot.
	var loginLimiter auth.LoginRateLimiter
	if cfg.LoginRateLimitPerMinute > 0 {
		if cfg.RedisURL == "" {
			log.Println("level=warn component=bootstrap msg=\"redis url missing; login throttling disabled\" env=REDIS_URL")
		} else if redisOptions, parseErr := redis.ParseURL(cfg.RedisURL); parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; login throttling disabled\" err=%v", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; login throttling disabled\" err=%v", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				loginLimiter = auth.NewRedisLoginRateLimiter(redisClient, cfg.RateLimitPrefix, cfg.LoginRateLimitPerMinute)
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
			cancelPing()
		}
	}

	tokenService := auth.NewTokenService(cfg.SessionSigningSecret)
	credentialStore := auth.NewCredentialStore(
		auth.Operator{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash, Role: domain.RoleAdmin},
		auth.Operator{Email: cfg.LoaderEmail, PasswordHash: cfg.LoaderPasswordHash, Role: domain.RoleLoader},
	)

	paydeskService := app.NewService(repository, eventProducer, cfg.PaymentEventExchange)
	handlers := api.NewHandlers(paydeskService, tokenService, credentialStore, loginLimiter, cfg.SecureCookies())
	guard := api.SessionGuard(tokenService, cfg.SecureCookies())

	router := api.Routes(handlers, guard, cfg.AllowedOrigins())

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
