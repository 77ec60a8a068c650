package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auth-service/internal/api/http"
	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/persistence"
	"github.com/spec-kit/auth-service/internal/repository"
	"github.com/spec-kit/auth-service/internal/service"
	"github.com/spec-kit/auth-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(pg.PoolHandle())

	// The signing key is fixed here, before the server accepts a single
	// request, and stays read-only for the process lifetime.
	signingKey := auth.NewSigningKey(cfg.Auth.JWTSecret)
	codec := auth.NewCodec(signingKey, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL())
	validator := auth.NewValidator(codec, logger)

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Codec:      codec,
		Dispatcher: dispatcher,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	auditService := service.NewAuditService(dispatcher, logger, redis)
	worker.StartAuditWorker(auditService)

	entryPoint := httptransport.NewAuthenticationEntryPoint(logger)
	authMiddleware := auth.NewMiddleware(validator, userRepo, entryPoint)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
