// Package database opens the gorm connection used by the repositories.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mytheresa/ecommerce-back-end/app/config"
	"github.com/mytheresa/ecommerce-back-end/models"
)

// Open connects to Postgres, registers the catalog join model and, when
// configured, syncs the schema.
//
// Foreign-key constraints are not created: products may point at deleted
// categories and join rows may outlive their product.
func Open(ctx context.Context, cfg config.Postgres, logger gormlogger.Interface) (_ *gorm.DB, err error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, Close(db))
		}
	}()

	if err := models.Setup(db); err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if _, err := NewHealthChecker(db).IsHealthy(pingCtx); err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := models.AutoMigrate(db.WithContext(ctx)); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Close releases the connections held by db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

// CloseWithLog closes db and logs a failure instead of returning it.
func CloseWithLog(ctx context.Context, db *gorm.DB, logger *slog.Logger) {
	if err := Close(db); err != nil {
		logger.ErrorContext(ctx, "error closing database", slog.Any("error", err))
	}
}

type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

type gormHealthChecker struct {
	db *gorm.DB
}

// NewHealthChecker reports whether the database behind db answers a ping.
func NewHealthChecker(db *gorm.DB) HealthChecker {
	return gormHealthChecker{db: db}
}

func (h gormHealthChecker) IsHealthy(ctx context.Context) (bool, error) {
	sqlDB, err := h.db.DB()
	if err != nil {
		return false, fmt.Errorf("get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return false, fmt.Errorf("ping database: %w", err)
	}
	return true, nil
}
