// Command inventory-cli manages products directly against the configured database.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"inventory/internal/cli"
	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/logger"
	"inventory/internal/services"

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

	store, err := database.OpenStore(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open product store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			zlog.Warn("failed to close database", zap.Error(err))
		}
	}()

	productService := services.NewProductService(store.Products,
		services.WithUniqueNames(cfg.UniqueProductNames),
		services.WithLogger(zlog),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	menu := cli.NewMenu(productService, os.Stdin, os.Stdout, "INVENTORY MANAGEMENT")
	if err := menu.Run(ctx); err != nil && ctx.Err() == nil {
		zlog.Error("menu stopped", zap.Error(err))
	}
}
