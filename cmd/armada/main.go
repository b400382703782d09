package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/armada-fleet/armada/internal/app"
	"github.com/armada-fleet/armada/internal/auth"
	"github.com/armada-fleet/armada/internal/drivers"
	"github.com/armada-fleet/armada/internal/observability"
	"github.com/armada-fleet/armada/internal/platform/cache"
	"github.com/armada-fleet/armada/internal/platform/db"
	"github.com/armada-fleet/armada/internal/rbac"
	"github.com/armada-fleet/armada/internal/roles"
	"github.com/armada-fleet/armada/internal/shared"
	"github.com/armada-fleet/armada/internal/users"
	"github.com/armada-fleet/armada/internal/vehicles"
	"github.com/armada-fleet/armada/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	auditLogger := shared.NewAuditLogger(dbpool)
	loginGuard := shared.NewLoginGuard(redisClient, 10, 15*time.Minute)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens, loginGuard)
	authenticator := &auth.Authenticator{Tokens: tokens, Service: authService, Logger: logger}
	authHandler := auth.NewHandler(logger, authService, authenticator)

	rbacService := rbac.NewService(dbpool)
	rbacMiddleware := rbac.Middleware{Checker: rbacService, Logger: logger}
	permissionsHandler := rbac.NewPermissionsHandler(logger, rbacService)

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo, auditLogger, logger)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMiddleware)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, auditLogger, logger)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	vehiclesRepo := vehicles.NewRepository(dbpool)
	vehiclesService := vehicles.NewService(vehiclesRepo, auditLogger, logger)
	vehiclesHandler := vehicles.NewHandler(logger, vehiclesService, rbacMiddleware)

	driversRepo := drivers.NewRepository(dbpool)
	driversService := drivers.NewService(driversRepo, auditLogger, logger)
	driversHandler := drivers.NewHandler(logger, driversService, rbacMiddleware)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Authenticator:      authenticator,
		AuthHandler:        authHandler,
		RolesHandler:       rolesHandler,
		UsersHandler:       usersHandler,
		VehiclesHandler:    vehiclesHandler,
		DriversHandler:     driversHandler,
		PermissionsHandler: permissionsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
