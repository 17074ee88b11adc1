package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/popcorn-picks/backend/internal/ai"
	"github.com/popcorn-picks/backend/internal/cache"
	"github.com/popcorn-picks/backend/internal/config"
	"github.com/popcorn-picks/backend/internal/database"
	"github.com/popcorn-picks/backend/internal/handlers"
	"github.com/popcorn-picks/backend/internal/kvstore"
	"github.com/popcorn-picks/backend/internal/logging"
	"github.com/popcorn-picks/backend/internal/middleware"
	"github.com/popcorn-picks/backend/internal/realtime"
	"github.com/popcorn-picks/backend/internal/routes"
	"github.com/popcorn-picks/backend/internal/services"
	"github.com/popcorn-picks/backend/internal/tmdb"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.TMDBAPIKey == "" {
		slog.Error("TMDB_API_KEY environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewFanout(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Redis when configured, in-process fallbacks otherwise. Single-instance
	// deployments work without Redis; the in-memory broker and store do not
	// survive restarts or span replicas.
	var (
		store      kvstore.Store
		broker     realtime.Broker
		redisCache *cache.RedisCache
		tmdbClient *tmdb.Client
	)
	if cfg.RedisAddr != "" {
		redisCache = cache.NewRedisCache(cfg)
		store = kvstore.NewRedis(redisCache.Client)
		broker = realtime.NewRedisBroker(redisCache.Client)
		tmdbClient = tmdb.NewClient(cfg, redisCache)
		slog.Info("using redis", "addr", cfg.RedisAddr)
	} else {
		store = kvstore.NewMemory()
		broker = realtime.NewMemoryBroker()
		tmdbClient = tmdb.NewClient(cfg, nil)
		slog.Info("redis not configured, using in-memory store and broker")
	}

	aiClient := ai.NewClient(cfg)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	partnerService := services.NewPartnerService(database.DB)
	matchService := services.NewMatchService(database.DB, broker)
	watchlistService := services.NewWatchlistService(database.DB, broker)
	preferenceService := services.NewPreferenceService(store)
	recommendationService := services.NewRecommendationService(tmdbClient)
	chatService := services.NewChatService(aiClient)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(redisCache)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	swipeHandler := handlers.NewSwipeHandler(matchService, partnerService, preferenceService)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService, partnerService, preferenceService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, matchService, partnerService, preferenceService, watchlistService)
	movieHandler := handlers.NewMovieHandler(tmdbClient)
	chatHandler := handlers.NewChatHandler(chatService, matchService, tmdbClient)
	realtimeHandler := handlers.NewRealtimeHandler(broker, partnerService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg,
		authHandler, healthHandler, partnerHandler, swipeHandler,
		watchlistHandler, recommendationHandler, movieHandler,
		chatHandler, realtimeHandler,
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if redisCache != nil {
		if err := redisCache.Client.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
