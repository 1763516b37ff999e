//go:build integration
// +build integration

package models_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mytheresa/ecommerce-back-end/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	code := func() int {
		defer func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				log.Printf("Failed to terminate container: %v", err)
			}
		}()

		connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			log.Printf("Failed to get connection string: %v", err)
			return 1
		}

		testDB, err = gorm.Open(gormpostgres.Open(connStr), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			log.Printf("Failed to open database: %v", err)
			return 1
		}
		if err := models.Setup(testDB); err != nil {
			log.Printf("Failed to set up models: %v", err)
			return 1
		}
		if err := models.AutoMigrate(testDB); err != nil {
			log.Printf("Failed to migrate: %v", err)
			return 1
		}

		return m.Run()
	}()

	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()

	tables := make([]string, 0, 4)
	for _, name := range models.TableNames() {
		tables = append(tables, pq.QuoteIdentifier(name))
	}
	stmt := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", strings.Join(tables, ", "))
	require.NoError(t, testDB.Exec(stmt).Error)
}

func seedTags(t *testing.T, names ...string) []models.Tag {
	t.Helper()

	tags := make([]models.Tag, len(names))
	for i, name := range names {
		tags[i] = models.Tag{TagName: name}
	}
	require.NoError(t, testDB.Create(&tags).Error)
	return tags
}

func newProduct(name string, price string) *models.Product {
	return &models.Product{
		ProductName: name,
		Price:       decimal.RequireFromString(price),
		Stock:       models.DefaultStock,
	}
}

func tagIDsOf(rows []models.ProductTag) []uint {
	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.TagID
	}
	return ids
}

// failJoinInserts makes every insert into the join table fail until the test
// ends. Other tables are written normally.
func failJoinInserts(t *testing.T) {
	t.Helper()

	const name = "test:fail_product_tags"
	err := testDB.Callback().Create().Before("gorm:create").Register(name, func(db *gorm.DB) {
		if db.Statement.Table == (&models.ProductTag{}).TableName() {
			db.AddError(errors.New("product_tags unavailable"))
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testDB.Callback().Create().Remove(name))
	})
}

func countProducts(t *testing.T) int64 {
	t.Helper()

	var n int64
	require.NoError(t, testDB.Model(&models.Product{}).Count(&n).Error)
	return n
}

func countJoinRows(t *testing.T) int64 {
	t.Helper()

	var n int64
	require.NoError(t, testDB.Model(&models.ProductTag{}).Count(&n).Error)
	return n
}

func TestCategoriesRepository(t *testing.T) {
	ctx := context.Background()
	repo := models.NewCategoriesRepository(testDB)
	products := models.NewProductsRepository(testDB)

	t.Run("Empty table lists nothing", func(t *testing.T) {
		resetTables(t)

		categories, err := repo.GetAllCategories(ctx)
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("Category is returned with its products", func(t *testing.T) {
		resetTables(t)

		category := &models.Category{CategoryName: "Shorts"}
		require.NoError(t, repo.CreateCategory(ctx, category))

		product := newProduct("Cargo Shorts", "29.99")
		product.CategoryID = &category.ID
		require.NoError(t, products.CreateProduct(ctx, product, nil))

		got, err := repo.GetCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Shorts", got.CategoryName)
		require.Len(t, got.Products, 1)
		assert.Equal(t, "Cargo Shorts", got.Products[0].ProductName)
	})

	t.Run("Missing category", func(t *testing.T) {
		resetTables(t)

		_, err := repo.GetCategory(ctx, 99)
		assert.ErrorIs(t, err, models.ErrCategoryNotFound)

		name := "Nothing"
		_, err = repo.UpdateCategory(ctx, 99, models.CategoryChanges{CategoryName: &name})
		assert.ErrorIs(t, err, models.ErrCategoryNotFound)

		assert.ErrorIs(t, repo.DeleteCategory(ctx, 99), models.ErrCategoryNotFound)
	})

	t.Run("Update and delete", func(t *testing.T) {
		resetTables(t)

		category := &models.Category{CategoryName: "Hat"}
		require.NoError(t, repo.CreateCategory(ctx, category))

		name := "Hats"
		n, err := repo.UpdateCategory(ctx, category.ID, models.CategoryChanges{CategoryName: &name})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := repo.GetCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hats", got.CategoryName)

		require.NoError(t, repo.DeleteCategory(ctx, category.ID))
		_, err = repo.GetCategory(ctx, category.ID)
		assert.ErrorIs(t, err, models.ErrCategoryNotFound)
	})
}

func TestProductsRepository(t *testing.T) {
	ctx := context.Background()
	repo := models.NewProductsRepository(testDB)

	t.Run("Empty table lists nothing", func(t *testing.T) {
		resetTables(t)

		products, err := repo.GetAllProducts(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Create with tags adds one join row per tag", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "blue", "red")

		product := newProduct("Plain T-Shirt", "14.99")
		require.NoError(t, repo.CreateProduct(ctx, product, []uint{tags[0].ID, tags[1].ID}))

		rows, err := repo.GetProductTags(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []uint{tags[0].ID, tags[1].ID}, tagIDsOf(rows))
		for _, row := range rows {
			assert.Equal(t, product.ID, row.ProductID)
		}

		got, err := repo.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, got.Tags, 2)
		assert.Equal(t, "blue", got.Tags[0].TagName)
		assert.Equal(t, "red", got.Tags[1].TagName)
	})

	t.Run("Create with duplicate tag ids", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "gold")

		product := newProduct("Branded Baseball Hat", "22.99")
		require.NoError(t, repo.CreateProduct(ctx, product, []uint{tags[0].ID, tags[0].ID}))

		assert.Equal(t, int64(1), countJoinRows(t))
	})

	t.Run("Check violation on create leaves no rows", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "gold")

		product := newProduct("Broken", "-1.00")
		err := repo.CreateProduct(ctx, product, []uint{tags[0].ID})
		assert.Error(t, err)

		assert.Equal(t, int64(0), countJoinRows(t))
		products, err := repo.GetAllProducts(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Failed join insert rolls back the created product", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "gold")
		failJoinInserts(t)

		product := newProduct("Branded Baseball Hat", "22.99")
		err := repo.CreateProduct(ctx, product, []uint{tags[0].ID})
		assert.ErrorContains(t, err, "product_tags unavailable")

		assert.Equal(t, int64(0), countProducts(t))
		assert.Equal(t, int64(0), countJoinRows(t))
	})

	t.Run("Update swaps tags and keeps shared rows", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "t1", "t2", "t3")
		t1, t2, t3 := tags[0].ID, tags[1].ID, tags[2].ID

		product := newProduct("Running Sneakers", "90.00")
		require.NoError(t, repo.CreateProduct(ctx, product, []uint{t1, t2}))

		before, err := repo.GetProductTags(ctx, product.ID)
		require.NoError(t, err)
		keptRowID := before[1].ID

		requested := []uint{t2, t3}
		require.NoError(t, repo.UpdateProduct(ctx, product.ID, models.ProductChanges{TagIDs: &requested}))

		after, err := repo.GetProductTags(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, after, 2)
		assert.Equal(t, []uint{t2, t3}, tagIDsOf(after))
		assert.Equal(t, keptRowID, after[0].ID, "join row of the kept tag should be untouched")
	})

	t.Run("Update without tag ids keeps tags", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "pop music")

		product := newProduct("Top 40 Music Compilation Vinyl Record", "12.99")
		require.NoError(t, repo.CreateProduct(ctx, product, []uint{tags[0].ID}))

		stock := 0
		price := decimal.RequireFromString("9.99")
		require.NoError(t, repo.UpdateProduct(ctx, product.ID, models.ProductChanges{Stock: &stock, Price: &price}))

		got, err := repo.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Stock)
		assert.True(t, price.Equal(got.Price))
		require.Len(t, got.Tags, 1)
	})

	t.Run("Update of a missing product does no tag work", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "green")

		requested := []uint{tags[0].ID}
		err := repo.UpdateProduct(ctx, 404, models.ProductChanges{TagIDs: &requested})
		assert.ErrorIs(t, err, models.ErrProductNotFound)
		assert.Equal(t, int64(0), countJoinRows(t))
	})

	t.Run("Check violation on update leaves tags alone", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "white", "gold")

		product := newProduct("Plain T-Shirt", "14.99")
		require.NoError(t, repo.CreateProduct(ctx, product, []uint{tags[0].ID}))

		stock := -5
		requested := []uint{tags[1].ID}
		err := repo.UpdateProduct(ctx, product.ID, models.ProductChanges{Stock: &stock, TagIDs: &requested})
		assert.Error(t, err)

		rows, err := repo.GetProductTags(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{tags[0].ID}, tagIDsOf(rows))
	})

	t.Run("Failed join insert rolls back the product update", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "white", "gold")

		product := newProduct("Plain T-Shirt", "14.99")
		require.NoError(t, repo.CreateProduct(ctx, product, []uint{tags[0].ID}))
		before, err := repo.GetProductTags(ctx, product.ID)
		require.NoError(t, err)

		failJoinInserts(t)

		name := "Fancy T-Shirt"
		requested := []uint{tags[1].ID}
		err = repo.UpdateProduct(ctx, product.ID, models.ProductChanges{ProductName: &name, TagIDs: &requested})
		assert.ErrorContains(t, err, "product_tags unavailable")

		got, err := repo.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Plain T-Shirt", got.ProductName)

		after, err := repo.GetProductTags(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after, "stale join row should survive the rollback")
	})

	t.Run("Null category clears the category", func(t *testing.T) {
		resetTables(t)

		category := &models.Category{CategoryName: "Shorts"}
		require.NoError(t, testDB.Create(category).Error)

		product := newProduct("Cargo Shorts", "29.99")
		product.CategoryID = &category.ID
		require.NoError(t, repo.CreateProduct(ctx, product, nil))

		require.NoError(t, repo.UpdateProduct(ctx, product.ID, models.ProductChanges{ClearCategory: true}))

		got, err := repo.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
		assert.Nil(t, got.Category)
	})

	t.Run("Delete then get", func(t *testing.T) {
		resetTables(t)
		tags := seedTags(t, "rock music")

		product := newProduct("Cargo Shorts", "29.99")
		require.NoError(t, repo.CreateProduct(ctx, product, []uint{tags[0].ID}))

		require.NoError(t, repo.DeleteProduct(ctx, product.ID))

		_, err := repo.GetProduct(ctx, product.ID)
		assert.ErrorIs(t, err, models.ErrProductNotFound)
		assert.ErrorIs(t, repo.DeleteProduct(ctx, product.ID), models.ErrProductNotFound)

		// join rows are not cleaned up
		assert.Equal(t, int64(1), countJoinRows(t))
	})
}

func TestTagsRepository(t *testing.T) {
	ctx := context.Background()
	repo := models.NewTagsRepository(testDB)
	products := models.NewProductsRepository(testDB)

	resetTables(t)

	tag := &models.Tag{TagName: "pop culture"}
	require.NoError(t, repo.CreateTag(ctx, tag))

	product := newProduct("Plain T-Shirt", "14.99")
	require.NoError(t, products.CreateProduct(ctx, product, []uint{tag.ID}))

	got, err := repo.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, product.ID, got.Products[0].ID)

	name := "culture"
	n, err := repo.UpdateTag(ctx, tag.ID, models.TagChanges{TagName: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := repo.GetAllTags(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "culture", all[0].TagName)

	require.NoError(t, repo.DeleteTag(ctx, tag.ID))
	_, err = repo.GetTag(ctx, tag.ID)
	assert.ErrorIs(t, err, models.ErrTagNotFound)
}
