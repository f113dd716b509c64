package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"anime-catalog-service/internal/auth"
	"anime-catalog-service/internal/config"
	"anime-catalog-service/internal/database"
	"anime-catalog-service/internal/handler"
	"anime-catalog-service/internal/jikan"
	"anime-catalog-service/internal/middleware"
	"anime-catalog-service/internal/repository"
	"anime-catalog-service/internal/service"
	"anime-catalog-service/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without rate limiting", "error", err)
	} else {
		defer rdb.Close()
	}

	if cfg.Auth.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD is not set, admin routes will reject every request")
	}
	authz := auth.NewPasswordAuthorizer(cfg.Auth.AdminPassword)
	routes := handler.Routes{Limiter: middleware.NewRateLimiter(rdb, "credentials", cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds).Handler()}

	// User tokens: without a secret every caller is anonymous and login is not mounted.
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if tokens.Enabled() {
		routes.Identity = middleware.Identity(tokens)
	} else {
		slog.Warn("JWT_SECRET is not set, login and watch history are disabled")
	}

	// Uploads: without a secret the upload routes are not mounted.
	routes.MediaDir = cfg.Upload.Dir
	uploads, err := storage.NewLocalStore(cfg.Upload)
	switch {
	case errors.Is(err, storage.ErrNoSecret):
		slog.Warn("UPLOAD_SECRET is not set, video uploads are disabled")
	case err != nil:
		slog.Error("failed to prepare upload store", "error", err)
		os.Exit(1)
	default:
		routes.Upload = handler.NewUploadHandler(uploads, authz)
	}

	// Initialize layers
	catalog := service.NewCatalogService(
		repository.NewAnimeRepository(db),
		jikan.NewClient(cfg.Jikan.BaseURL),
		authz,
	)
	routes.Anime = handler.NewAnimeHandler(catalog)
	routes.History = handler.NewHistoryHandler(service.NewHistoryService(repository.NewHistoryRepository(db)))
	if tokens.Enabled() {
		routes.User = handler.NewUserHandler(service.NewUserService(repository.NewUserRepository(db), tokens))
	}

	app := handler.NewApp()

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, "Anime Catalog Service", swaggerYAML)
	}

	routes.Register(app)

	// Seed an empty catalog in the background; the server does not wait for it.
	if cfg.Seed.Enabled {
		seeder := service.NewSeeder(catalog, cfg.Seed.MALIDs, cfg.Seed.Interval)
		go func() {
			if _, err := seeder.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Error("catalog seed failed", "error", err)
			}
		}()
	}

	go func() {
		slog.Info("anime-catalog-service starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down anime-catalog-service")
	_ = app.Shutdown()
}
