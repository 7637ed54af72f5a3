package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/skarim/autotrack/internal/config"
	"github.com/skarim/autotrack/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.UsingInsecureSecret() {
		logger.Warn("JWT_SECRET is not set, using the built-in development secret; set JWT_SECRET before deploying")
	}

	// The sqlite driver will not create parent directories itself.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory", slog.String("dir", dir), slog.Any("error", err))
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", slog.Any("error", err))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}
