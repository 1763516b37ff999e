//go:build integration
// +build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mytheresa/ecommerce-back-end/app/config"
	"github.com/mytheresa/ecommerce-back-end/app/database"
	"github.com/mytheresa/ecommerce-back-end/models"
)

func startPostgres(t *testing.T) string {
	t.Helper()
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
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	connStr := startPostgres(t)

	t.Run("Migrates and reports health", func(t *testing.T) {
		db, err := database.Open(ctx, config.Postgres{URL: connStr, AutoMigrate: true}, gormlogger.Discard)
		require.NoError(t, err)

		for _, table := range models.TableNames() {
			assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
		}

		health := database.NewHealthChecker(db)
		ok, err := health.IsHealthy(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, database.Close(db))

		ok, err = health.IsHealthy(ctx)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("Failed migration releases its connections", func(t *testing.T) {
		admin, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{Logger: gormlogger.Discard})
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, database.Close(admin)) })

		// A view holding the table name makes CREATE TABLE fail.
		require.NoError(t, admin.Exec("DROP TABLE IF EXISTS product_tags, tags, products, categories").Error)
		require.NoError(t, admin.Exec("CREATE VIEW products AS SELECT 1 AS id").Error)
		t.Cleanup(func() { assert.NoError(t, admin.Exec("DROP VIEW products").Error) })

		cfg := config.Postgres{URL: connStr + "&application_name=open_failure", AutoMigrate: true}
		_, err = database.Open(ctx, cfg, gormlogger.Discard)
		require.Error(t, err)

		assert.Eventually(t, func() bool {
			var n int64
			err := admin.Raw("SELECT count(*) FROM pg_stat_activity WHERE application_name = ?", "open_failure").
				Scan(&n).Error
			return err == nil && n == 0
		}, 5*time.Second, 100*time.Millisecond)
	})
}

func TestOpenUnreachable(t *testing.T) {
	cfg := config.Postgres{URL: "host=127.0.0.1 port=1 user=nobody dbname=none sslmode=disable connect_timeout=1"}

	_, err := database.Open(context.Background(), cfg, gormlogger.Discard)
	assert.Error(t, err)
}
