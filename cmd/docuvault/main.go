package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/docuvault/docuvault/internal/access"
	"github.com/docuvault/docuvault/internal/app"
	"github.com/docuvault/docuvault/internal/documents"
	"github.com/docuvault/docuvault/internal/observability"
	"github.com/docuvault/docuvault/internal/platform/cache"
	"github.com/docuvault/docuvault/internal/platform/db"
	"github.com/docuvault/docuvault/internal/roles"
	"github.com/docuvault/docuvault/internal/shared"
	"github.com/docuvault/docuvault/internal/users"
	"github.com/docuvault/docuvault/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "docuvault_session", cfg.SessionTTL, cfg.IsProduction())
	metrics := observability.NewMetrics()

	engine := access.NewEngine(access.NewRepository(pool), logger, access.Options{
		TTL:     cfg.AccessCacheTTL,
		Metrics: metrics,
	})
	accessMW := access.Middleware{Engine: engine, Logger: logger}

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("connect job queue", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	rolesService := roles.NewService(roles.NewRepository(pool), engine, jobClient, logger)
	usersService := users.NewService(users.NewRepository(pool), engine)
	documentsService := documents.NewService(documents.NewRepository(pool), engine, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		AccessHandler:    access.NewHandler(logger, engine, accessMW),
		DocumentsHandler: documents.NewHandler(logger, documentsService, accessMW),
		RolesHandler:     roles.NewHandler(logger, rolesService, accessMW),
		UsersHandler:     users.NewHandler(logger, usersService, accessMW),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
