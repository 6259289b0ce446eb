package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"retail-ledger/internal/cli"
	"retail-ledger/internal/config"
	"retail-ledger/internal/logging"
	"retail-ledger/internal/repository"
	"retail-ledger/internal/service"
)

func main() {
	cfg := config.Load()
	flag.StringVar(&cfg.DataFile, "f", cfg.DataFile, "snapshot file used by the json backend")
	flag.StringVar(&cfg.DataBackend, "backend", cfg.DataBackend, "snapshot backend (json or postgres)")
	flag.Parse()

	// The menu owns stdout; logs go to stderr and stay quiet unless asked for.
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	logger := logging.New(cfg.LogFormat, level, os.Stderr)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	ledger := service.NewLedgerService(backend, cfg.CheckingPolicy(), logger)
	if err := ledger.Load(ctx); err != nil {
		logger.Error("Failed to load ledger", "error", err)
		backend.Close()
		os.Exit(1)
	}

	if err := cli.New(ledger, os.Stdin, os.Stdout, logger).Run(ctx); err != nil {
		logger.Error("Failed to save ledger", "error", err)
		backend.Close()
		os.Exit(1)
	}
}
