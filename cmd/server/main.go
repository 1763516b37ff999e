package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mytheresa/ecommerce-back-end/app/config"
	"github.com/mytheresa/ecommerce-back-end/app/database"
	"github.com/mytheresa/ecommerce-back-end/app/logging"
	"github.com/mytheresa/ecommerce-back-end/app/server"
	"github.com/mytheresa/ecommerce-back-end/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	time.Local = time.UTC

	// A missing .env file is fine, the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := logging.New(cfg.Log, os.Stdout)

	db, err := database.Open(ctx, cfg.Postgres, logging.NewGormLogger(cfg.Log, logger))
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer database.CloseWithLog(context.Background(), db, logger)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("error getting sql db: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.Postgres.DB),
	)

	svc := server.New(cfg.HTTP, logger, server.Stores{
		Categories: models.NewCategoriesRepository(db),
		Products:   models.NewProductsRepository(db),
		Tags:       models.NewTagsRepository(db),
		Health:     database.NewHealthChecker(db),
	}, reg)

	cleanup, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}

	logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

	<-ctx.Done()

	logger.Info("http service is shutting down")
	if err := cleanup(context.Background()); err != nil {
		logger.Error("error shutting down http service", slog.Any("error", err))
	}

	logger.Info("http service is stopped")

	return nil
}
