package app

import (
	"context"
	"database/sql"
	"testing"

	"github.com/comanda-app/comanda/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newSQLiteFactory(t *testing.T) *RepositoryFactory {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.RunSQLite(context.Background(), db))

	return NewSQLiteRepositoryFactory(db)
}

func TestRepositoryFactory_SQLite(t *testing.T) {
	factory := newSQLiteFactory(t)

	assert.Equal(t, DriverSQLite, factory.Driver())

	repo, err := factory.ConsumptionRepository()
	require.NoError(t, err)
	assert.NotNil(t, repo)

	reader, err := factory.ConsumptionReader()
	require.NoError(t, err)
	assert.NotNil(t, reader)

	customers, err := factory.CustomerLookup()
	require.NoError(t, err)
	assert.NotNil(t, customers)

	catalog, err := factory.Catalog()
	require.NoError(t, err)
	assert.NotNil(t, catalog)

	outboxRepo, err := factory.OutboxRepository()
	require.NoError(t, err)
	assert.NotNil(t, outboxRepo)

	uow, err := factory.UnitOfWork()
	require.NoError(t, err)
	assert.NotNil(t, uow)
}

func TestRepositoryFactory_UnsupportedDriver(t *testing.T) {
	factory := &RepositoryFactory{driver: "oracle"}

	_, err := factory.ConsumptionRepository()
	assert.ErrorContains(t, err, "unsupported driver")

	_, err = factory.ConsumptionReader()
	assert.ErrorContains(t, err, "unsupported driver")

	_, err = factory.CustomerLookup()
	assert.ErrorContains(t, err, "unsupported driver")

	_, err = factory.Catalog()
	assert.ErrorContains(t, err, "unsupported driver")

	_, err = factory.OutboxRepository()
	assert.ErrorContains(t, err, "unsupported driver")

	_, err = factory.UnitOfWork()
	assert.ErrorContains(t, err, "unsupported driver")
}
