package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mytheresa/ecommerce-back-end/app/config"
	"github.com/mytheresa/ecommerce-back-end/app/database"
	"github.com/mytheresa/ecommerce-back-end/app/logging"
	"github.com/mytheresa/ecommerce-back-end/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running seed application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// The schema must exist before it can be reset.
	cfg.Postgres.AutoMigrate = true

	logger := logging.New(cfg.Log, os.Stdout)

	db, err := database.Open(ctx, cfg.Postgres, logging.NewGormLogger(cfg.Log, logger))
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer database.CloseWithLog(ctx, db, logger)

	logger.InfoContext(ctx, "seeding database")

	if err := db.WithContext(ctx).Transaction(seed); err != nil {
		return fmt.Errorf("error seeding database: %w", err)
	}

	logger.InfoContext(ctx, "database seeded successfully")

	return nil
}

func seed(tx *gorm.DB) error {
	tables := models.TableNames()
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = pq.QuoteIdentifier(t)
	}
	if err := tx.Exec("TRUNCATE " + strings.Join(quoted, ", ") + " RESTART IDENTITY").Error; err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}

	categories := []models.Category{
		{CategoryName: "Shirts"},
		{CategoryName: "Shorts"},
		{CategoryName: "Music"},
		{CategoryName: "Hats"},
		{CategoryName: "Shoes"},
	}
	if err := tx.Omit("Products").Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	products := []models.Product{
		product("Plain T-Shirt", "14.99", 14, 1),
		product("Running Sneakers", "90.00", 25, 5),
		product("Branded Baseball Hat", "22.99", 12, 4),
		product("Top 40 Music Compilation Vinyl Record", "12.99", 50, 3),
		product("Cargo Shorts", "29.99", 22, 2),
	}
	if err := tx.Omit("Category", "Tags").Create(&products).Error; err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	tags := []models.Tag{
		{TagName: "rock music"},
		{TagName: "pop music"},
		{TagName: "blue"},
		{TagName: "red"},
		{TagName: "green"},
		{TagName: "white"},
		{TagName: "gold"},
		{TagName: "pop culture"},
	}
	if err := tx.Omit("Products").Create(&tags).Error; err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}

	productTags := []models.ProductTag{
		{ProductID: 1, TagID: 6},
		{ProductID: 1, TagID: 7},
		{ProductID: 1, TagID: 8},
		{ProductID: 2, TagID: 6},
		{ProductID: 3, TagID: 1},
		{ProductID: 3, TagID: 3},
		{ProductID: 3, TagID: 4},
		{ProductID: 3, TagID: 5},
		{ProductID: 4, TagID: 1},
		{ProductID: 4, TagID: 2},
		{ProductID: 4, TagID: 8},
		{ProductID: 5, TagID: 3},
	}
	if err := tx.Create(&productTags).Error; err != nil {
		return fmt.Errorf("seed product tags: %w", err)
	}

	return nil
}

func product(name, price string, stock int, categoryID uint) models.Product {
	return models.Product{
		ProductName: name,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		CategoryID:  &categoryID,
	}
}
