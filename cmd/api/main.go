package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lumoapps/habitpulse-engine/internal/adapters/cache"
	adapterHTTP "github.com/lumoapps/habitpulse-engine/internal/adapters/handler/http"
	"github.com/lumoapps/habitpulse-engine/internal/adapters/repository"
	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
	"github.com/lumoapps/habitpulse-engine/internal/core/services"
	"github.com/lumoapps/habitpulse-engine/internal/core/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")

	serverPort := envOr("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}
	jwtIssuer := envOr("JWT_ISSUER", "habitpulse-engine")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisClient, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache and rate limiting: %v", err)
		redisClient = nil
	} else {
		log.Println("Redis connected successfully.")
	}

	var habitRepo domain.HabitRepository = repository.NewPostgresHabitRepository(db)
	if redisClient != nil {
		habitRepo = repository.NewCachedHabitRepository(habitRepo, redisClient)
	}

	completionRepo := repository.NewPostgresCompletionRepository(db)
	stackRepo := repository.NewPostgresStackRepository(db)
	userRepo := repository.NewPostgresUserRepository(db.DB)

	var dismissals domain.DismissalStore
	if redisClient != nil {
		dismissals = repository.NewRedisDismissalStore(redisClient)
	} else {
		dismissals = repository.NewInMemoryDismissalStore()
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	streakWorker := workers.NewStreakWorker(habitRepo, completionRepo)
	streakWorker.Start(workerCtx)

	habitService := services.NewHabitService(habitRepo)
	completionService := services.NewCompletionService(completionRepo, habitRepo, streakWorker)
	stackService := services.NewStackService(stackRepo, habitRepo)
	analyticsService := services.NewAnalyticsService(habitRepo, completionRepo, stackRepo, dismissals)
	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, 24*time.Hour, userRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler:      adapterHTTP.NewHabitHandler(habitService),
		CompletionHandler: adapterHTTP.NewCompletionHandler(completionService),
		StackHandler:      adapterHTTP.NewStackHandler(stackService),
		AnalyticsHandler:  adapterHTTP.NewAnalyticsHandler(analyticsService),
		TokenService:      tokenService,
		DB:                db,
		Redis:             redisClient,
		StartTime:         startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("HabitPulse Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
