package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/comanda-app/comanda/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSQLiteConfig() *config.Config {
	return &config.Config{
		AppEnv:             "development",
		LogLevel:           "info",
		DBDriver:           "sqlite",
		SQLitePath:         ":memory:",
		OutboxPollInterval: 100 * time.Millisecond,
		OutboxBatchSize:    100,
		OutboxMaxRetries:   5,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewContainer_SQLite(t *testing.T) {
	c, err := NewContainer(context.Background(), testSQLiteConfig(), testLogger())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.SQLiteDB)
	assert.Nil(t, c.DB)
	assert.Nil(t, c.RedisClient)

	assert.NotNil(t, c.ConsumptionRepo)
	assert.NotNil(t, c.ConsumptionReader)
	assert.NotNil(t, c.CustomerLookup)
	assert.NotNil(t, c.Catalog)
	assert.NotNil(t, c.OutboxRepo)
	assert.NotNil(t, c.UnitOfWork)
	assert.NotNil(t, c.EventPublisher)
	assert.NotNil(t, c.PixGateway)

	assert.NotNil(t, c.RegisterConsumptionHandler)
	assert.NotNil(t, c.ConfirmPaymentHandler)
	assert.NotNil(t, c.GeneratePixPaymentHandler)
	assert.NotNil(t, c.ListCustomerConsumptionsHandler)
	assert.NotNil(t, c.GetConsumptionDetailsHandler)
	assert.NotNil(t, c.IdentifyCustomerHandler)
	assert.NotNil(t, c.ListAvailableProductsHandler)

	assert.NotNil(t, c.OutboxProcessor)
	assert.False(t, c.OutboxProcessor.IsRunning())
}

func TestNewContainer_SQLite_AppliesSchema(t *testing.T) {
	c, err := NewContainer(context.Background(), testSQLiteConfig(), testLogger())
	require.NoError(t, err)
	defer c.Close()

	for _, table := range []string{"customers", "products", "consumptions", "consumption_items", "outbox"} {
		var count int
		err := c.SQLiteDB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, 0, count)
	}
}

func TestNewContainer_SQLite_HealthChecks(t *testing.T) {
	c, err := NewContainer(context.Background(), testSQLiteConfig(), testLogger())
	require.NoError(t, err)
	defer c.Close()

	health := c.Health.GetOverallHealth(context.Background())
	require.Contains(t, health.Checks, "database")
	assert.Equal(t, "healthy", string(health.Status))
}
