package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/localmarket/offers-service/internal/api/http"
	"github.com/localmarket/offers-service/internal/api/http/handlers"
	"github.com/localmarket/offers-service/internal/auth"
	"github.com/localmarket/offers-service/internal/config"
	"github.com/localmarket/offers-service/internal/observability"
	"github.com/localmarket/offers-service/internal/persistence"
	"github.com/localmarket/offers-service/internal/repository"
	"github.com/localmarket/offers-service/internal/service"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	offerRepo := repository.NewOfferRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)

	denylist := auth.NewTokenDenylist(redis.Client)
	authService := service.NewAuthService(cfg.Auth, userRepo, denylist)
	profileService := service.NewProfileService(userRepo)
	offerService := service.NewOfferService(offerRepo, mediaRepo)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), denylist)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, profileService),
		Offers:         handlers.NewOffersHandler(offerService),
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
