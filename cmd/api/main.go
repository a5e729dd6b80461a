package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/sparksupport/helpdesk/internal/api/http"
	"github.com/sparksupport/helpdesk/internal/api/http/handlers"
	"github.com/sparksupport/helpdesk/internal/auth"
	"github.com/sparksupport/helpdesk/internal/cache"
	"github.com/sparksupport/helpdesk/internal/config"
	"github.com/sparksupport/helpdesk/internal/events"
	"github.com/sparksupport/helpdesk/internal/observability"
	"github.com/sparksupport/helpdesk/internal/persistence"
	"github.com/sparksupport/helpdesk/internal/repository"
	"github.com/sparksupport/helpdesk/internal/service"
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
	categoryRepo := repository.NewCategoryRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewTicketMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	invalidator := cache.NewInvalidator(redis.Client, cfg.Redis.InvalidateChannel, logger)
	invalidator.RegisterHandlers(dispatcher)

	authService := service.NewAuthService(*cfg, userRepo)
	categoryService := service.NewCategoryService(categoryRepo, dispatcher)
	staffService := service.NewStaffService(*cfg, userRepo, dispatcher)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     userRepo,
		Dispatcher:   dispatcher,
	})

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Staff:          handlers.NewStaffHandler(staffService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
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
