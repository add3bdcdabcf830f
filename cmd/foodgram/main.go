package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matt-dz/foodgram/internal/api"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	logger := log.New(nil)

	conf, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	fs, err := setup.FileStore(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup file store", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := setup.Database(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup database", slog.Any("error", err))
		os.Exit(1)
	}

	env := &env.Env{
		Logger:    logger,
		FileStore: fs,
		Database:  db,
		Config:    conf,
	}

	logger.DebugContext(ctx, "seeding tags and ingredients")
	if err := setup.Seed(setupCtx, env); err != nil {
		logger.Error("failed to seed database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := api.Start(env); err != nil {
		env.Logger.Error("API Failed", slog.Any("error", err))
		os.Exit(1)
	}
}
