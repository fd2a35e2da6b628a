package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/etickets/ticket-admin/internal/api/http"
	"github.com/etickets/ticket-admin/internal/api/http/handlers"
	"github.com/etickets/ticket-admin/internal/auth"
	"github.com/etickets/ticket-admin/internal/config"
	"github.com/etickets/ticket-admin/internal/events"
	"github.com/etickets/ticket-admin/internal/observability"
	"github.com/etickets/ticket-admin/internal/service"
	"github.com/etickets/ticket-admin/internal/storage"
	"github.com/etickets/ticket-admin/internal/worker"
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

	backend, err := newBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init storage backend", zap.Error(err))
	}
	defer backend.Close()

	store := storage.NewGateway(backend)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	var hasher auth.PasswordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if cfg.Auth.PlaintextPasswords {
		hasher = auth.PlaintextHasher{}
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Store:  store,
		Hasher: hasher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if err := authService.EnsureAdminSeed(ctx); err != nil {
		logger.Fatal("failed to seed admin credential", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), directoryService)

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Employees:      handlers.NewEmployeesHandler(directoryService),
		Customers:      handlers.NewCustomersHandler(directoryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("storage_driver", cfg.Storage.Driver))

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func newBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Backend, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemoryBackend(), nil
	case "file":
		return storage.NewFileBackend(cfg.Storage.Dir)
	case "redis":
		return storage.NewRedisBackend(cfg.Redis, logger), nil
	case "postgres":
		pg, err := storage.NewPostgresBackend(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.RunMigrations {
			if err := storage.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
