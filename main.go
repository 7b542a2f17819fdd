package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/handlers"
	"inventory/internal/logger"
	"inventory/internal/middleware"
	"inventory/internal/models"
	"inventory/internal/services"
	"inventory/internal/telemetry"
	"inventory/pkg/rabbitmq"
)

// NewApp builds the REST application over store. publisher may be nil.
// The returned AuthService is nil unless cfg.AuthEnabled is set.
func NewApp(cfg *config.Config, log *zap.Logger, store *database.Store, publisher services.EventPublisher) (*fiber.App, *services.AuthService) {
	opts := []services.ProductServiceOption{
		services.WithUniqueNames(cfg.UniqueProductNames),
		services.WithLogger(log),
	}
	if publisher != nil {
		opts = append(opts, services.WithEventPublisher(publisher))
	}
	productService := services.NewProductService(store.Products, opts...)
	productHandler := handlers.NewProductHandler(productService, log)

	app := fiber.New(fiber.Config{AppName: cfg.AppName})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.Tracing())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Inventory REST API is running!"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": cfg.DatabaseDriver,
			"events":   publisher != nil,
		})
	})

	apiV1 := app.Group("/api/v1")

	var authService *services.AuthService
	var writeGuards []fiber.Handler
	if cfg.AuthEnabled && cfg.UsesSQL() {
		authService = services.NewAuthService(store.Users, cfg.JWTSecret)
		handlers.NewAuthHandler(authService, log).RegisterRoutes(apiV1)
		writeGuards = append(writeGuards, middleware.AuthRequired(authService, log))
	}
	productHandler.RegisterRoutes(apiV1, writeGuards...)

	return app, authService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	shutdownTracing, err := telemetry.Init(cfg.AppName, cfg.TracingEnabled, os.Stdout)
	if err != nil {
		zlog.Fatal("failed to initialize tracing", zap.Error(err))
	}

	store, err := database.OpenStore(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open product store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			zlog.Warn("failed to close database", zap.Error(err))
		}
	}()

	// Product events are optional; without RABBITMQ_URL the service runs without them.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = mqClient

		err = mqClient.ConsumeProductEvents(func(event models.ProductEvent) error {
			zlog.Info("product event received",
				zap.String("event_id", event.ID),
				zap.String("type", string(event.Type)),
				zap.Uint("product_id", event.ProductID))
			return nil
		})
		if err != nil {
			zlog.Error("failed to start product event consumer", zap.Error(err))
		}
	}

	app, _ := NewApp(cfg, zlog, store, publisher)

	go func() {
		zlog.Info("starting REST server", zap.String("addr", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during Fiber shutdown", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		zlog.Warn("failed to flush traces", zap.Error(err))
	}
	zlog.Info("server gracefully stopped")
}
