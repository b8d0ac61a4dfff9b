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
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/admin"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/app"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/auth"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/observability"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/platform/cache"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/platform/db"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/roles"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/users"
	"github.com/jaiminpanchal50/FeatureBaseAccess/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool); err != nil {
		logger.Error("migrate schema", slog.Any("error", err))
		os.Exit(1)
	}

	var redisClient *redis.Client
	if client, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logger.Warn("redis unavailable, role cache disabled", slog.Any("error", err))
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)
	var auditor admin.Auditor = auditLogger
	if redisClient != nil {
		jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		auditor = jobs.NewAuditQueue(jobClient, auditLogger, logger)
	}

	rolesRepo := roles.NewRepository(dbpool)
	roleCache := roles.NewCache(redisClient, rolesRepo, cfg.RoleCacheTTL, roles.WithCacheLogger(logger))
	usersRepo := users.NewRepository(dbpool)

	rbacService := rbac.NewService(usersRepo, roleCache)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger, Recorder: metrics}

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Issuer:        cfg.JWTIssuer,
		AccessTTL:     cfg.JWTAccessTTL,
		RefreshTTL:    cfg.JWTRefreshTTL,
	})
	if err != nil {
		logger.Error("token issuer", slog.Any("error", err))
		os.Exit(1)
	}
	authService := auth.NewService(auth.NewRepository(dbpool), tokens, rbacService)

	healthChecks := map[string]app.HealthCheck{"postgres": dbpool.Ping}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Authenticate:       auth.Authenticate(authService, logger),
		AuthHandler:        auth.NewHandler(logger, authService),
		UsersHandler:       users.NewHandler(logger, users.NewService(usersRepo), rbacMiddleware),
		RolesHandler:       roles.NewHandler(logger, roles.NewService(rolesRepo, roleCache), rbacMiddleware),
		AdminHandler:       admin.NewHandler(logger, admin.NewService(usersRepo, rolesRepo, rbacService, auditor, logger), rbacMiddleware),
		PermissionsHandler: rbac.NewPermissionsHandler(rbacService, rbacMiddleware),
		HealthChecks:       healthChecks,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
