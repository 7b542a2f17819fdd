// Command soap-service serves the product operations over SOAP 1.1.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/logger"
	"inventory/internal/middleware"
	"inventory/internal/services"
	"inventory/internal/soap"
	"inventory/internal/telemetry"
	"inventory/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

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

	shutdownTracing, err := telemetry.Init(cfg.AppName+"-soap", cfg.TracingEnabled, os.Stdout)
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

	opts := []services.ProductServiceOption{
		services.WithUniqueNames(cfg.UniqueProductNames),
		services.WithLogger(zlog),
	}
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		opts = append(opts, services.WithEventPublisher(mqClient))
	}
	productService := services.NewProductService(store.Products, opts...)

	app := fiber.New(fiber.Config{AppName: cfg.AppName + " SOAP"})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.Tracing())
	soap.NewService(productService, zlog).RegisterRoutes(app)

	go func() {
		zlog.Info("starting SOAP server",
			zap.String("addr", cfg.SoapPort),
			zap.String("wsdl", cfg.SoapEndpoint+"?wsdl"))
		if err := app.Listen(cfg.SoapPort); err != nil {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down SOAP server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during Fiber shutdown", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		zlog.Warn("failed to flush traces", zap.Error(err))
	}
}
