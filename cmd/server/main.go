package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openboard/api/internal/config"
	"github.com/openboard/api/internal/database"
	"github.com/openboard/api/internal/handler"
	"github.com/openboard/api/internal/jobs"
	"github.com/openboard/api/internal/jsearch"
	"github.com/openboard/api/internal/middleware"
	"github.com/openboard/api/internal/repository"
	"github.com/openboard/api/internal/service"
	"github.com/openboard/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure database schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		AccessSecret:   cfg.JWT.AccessSecret,
		EmailSecret:    cfg.JWT.EmailSecret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	jobRepo := repository.NewJobRepository(db)
	savedJobRepo := repository.NewSavedJobRepository(db)

	// Initialize ingest guard: Redis when configured, in-memory otherwise
	var guard service.IngestGuard
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.Error("invalid REDIS_URL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = redisClient.Close() }()
		guard = service.NewRedisGuard(redisClient, cfg.Ingest.GuardTTL)
		slog.Info("using redis ingest guard")
	} else {
		guard = service.NewMemoryGuard(cfg.Ingest.GuardTTL)
	}

	// Initialize mailer when SMTP is configured
	var mailer service.Mailer
	if cfg.SMTP.IsConfigured() {
		smtpMailer, err := service.NewSMTPMailer(service.SMTPMailerConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			slog.Error("failed to initialize mailer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		mailer = smtpMailer
		slog.Info("verification email enabled", slog.String("host", cfg.SMTP.Host))
	}

	// Initialize external job source client
	searchClient := jsearch.NewClient(jsearch.Config{
		APIKey:  cfg.JSearch.APIKey,
		BaseURL: cfg.JSearch.BaseURL,
		Timeout: cfg.JSearch.Timeout,
	})

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService: jwtService,
		TokenRepo:  tokenRepo,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:      userRepo,
		TokenService:  tokenService,
		JWTService:    jwtService,
		Mailer:        mailer,
		VerifyBaseURL: cfg.SMTP.VerifyBaseURL,
	})

	jobService := service.NewJobService(service.JobServiceConfig{
		JobRepo:   jobRepo,
		SavedRepo: savedJobRepo,
	})

	ingestService := service.NewIngestService(service.IngestServiceConfig{
		Client:  searchClient,
		JobRepo: jobRepo,
		Guard:   guard,
		Pace:    cfg.Ingest.Pace,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100,
		Window: time.Minute,
		Burst:  20,
	})
	defer rateLimiter.Stop()

	// Initialize background jobs
	if cfg.Sweep.Enabled {
		sweep := jobs.NewSweep(ingestService, jobs.SweepConfig{
			Schedule:    cfg.Sweep.Schedule,
			Terms:       cfg.Sweep.Terms,
			Regions:     cfg.Sweep.Regions,
			MaxPages:    cfg.Sweep.MaxPages,
			MaxAPICalls: cfg.Sweep.MaxAPICalls,
		})
		if err := sweep.Start(); err != nil {
			slog.Error("failed to start sweep", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer sweep.Stop()
	}

	tokenCleanup := jobs.NewTokenCleanup(tokenRepo, 24*time.Hour)
	tokenCleanup.Start()
	defer tokenCleanup.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	jobHandler := handler.NewJobHandler(jobService, ingestService)
	userHandler := handler.NewUserHandler(jobService)
	healthHandler := handler.NewHealthHandler(db)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("GET /api/auth/verify-email", authHandler.VerifyEmail)

	// Auth endpoints (protected)
	authMiddleware := middleware.Auth(tokenService)
	mux.Handle("POST /api/auth/logout", authMiddleware(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))

	// Job endpoints (public)
	mux.HandleFunc("GET /api/jobs", jobHandler.List)
	mux.HandleFunc("GET /api/jobs/count", jobHandler.Count)
	mux.HandleFunc("POST /api/jobs/fetch", jobHandler.Fetch)

	// Saved job endpoints (protected)
	mux.Handle("GET /api/users/saved-jobs", authMiddleware(http.HandlerFunc(userHandler.ListSavedJobs)))
	mux.Handle("POST /api/users/saved-jobs/{jobID}", authMiddleware(http.HandlerFunc(userHandler.SaveJob)))
	mux.Handle("DELETE /api/users/saved-jobs/{jobID}", authMiddleware(http.HandlerFunc(userHandler.RemoveSavedJob)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
