package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retail-ledger/internal/config"
	"retail-ledger/internal/logging"
	"retail-ledger/internal/server"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverInstance, err := server.NewServer(ctx, cfg, logger)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	port, err := serverInstance.Start(cfg.ServerPort)
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
	slog.Info("Server started successfully", "port", port)

	if err := serverInstance.Run(ctx, 30*time.Second); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
