// Command soap-client manages products through a remote inventory SOAP service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"inventory/internal/cli"
	"inventory/internal/config"
	"inventory/internal/logger"
	"inventory/internal/soap"
	"inventory/internal/telemetry"

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

	// Spans go to stderr so they do not interleave with the menu.
	shutdownTracing, err := telemetry.Init(cfg.AppName+"-soap-client", cfg.TracingEnabled, os.Stderr)
	if err != nil {
		zlog.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	zlog.Info("using SOAP endpoint", zap.String("endpoint", cfg.SoapEndpoint))
	client := soap.NewClient(cfg.SoapEndpoint)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	menu := cli.NewMenu(client, os.Stdin, os.Stdout, "SOAP CLIENT")
	if err := menu.Run(ctx); err != nil && ctx.Err() == nil {
		zlog.Error("menu stopped", zap.Error(err))
	}
}
