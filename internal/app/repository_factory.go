package app

import (
	"database/sql"
	"fmt"

	catalogDomain "github.com/comanda-app/comanda/internal/catalog/domain"
	catalogPersistence "github.com/comanda-app/comanda/internal/catalog/infrastructure/persistence"
	consumptionDomain "github.com/comanda-app/comanda/internal/consumption/domain"
	consumptionPersistence "github.com/comanda-app/comanda/internal/consumption/infrastructure/persistence"
	customerDomain "github.com/comanda-app/comanda/internal/customer/domain"
	customerPersistence "github.com/comanda-app/comanda/internal/customer/infrastructure/persistence"
	sharedApplication "github.com/comanda-app/comanda/internal/shared/application"
	"github.com/comanda-app/comanda/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/comanda-app/comanda/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database drivers supported by the repository factory.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ConsumptionReader serves both read-side projections of a consumption.
type ConsumptionReader interface {
	consumptionDomain.SummaryReader
	consumptionDomain.DetailsReader
}

// ProductCatalog combines product lookup and listing.
type ProductCatalog interface {
	catalogDomain.Lookup
	catalogDomain.Catalog
}

// RepositoryFactory creates repositories for the configured database driver.
type RepositoryFactory struct {
	driver string
	pool   *pgxpool.Pool
	db     *sql.DB
}

// NewPostgresRepositoryFactory creates a factory backed by a pgx pool.
func NewPostgresRepositoryFactory(pool *pgxpool.Pool) *RepositoryFactory {
	return &RepositoryFactory{driver: DriverPostgres, pool: pool}
}

// NewSQLiteRepositoryFactory creates a factory backed by a SQLite database.
func NewSQLiteRepositoryFactory(db *sql.DB) *RepositoryFactory {
	return &RepositoryFactory{driver: DriverSQLite, db: db}
}

// Driver returns the database driver the factory builds for.
func (f *RepositoryFactory) Driver() string {
	return f.driver
}

// ConsumptionRepository creates the consumption write-side repository.
func (f *RepositoryFactory) ConsumptionRepository() (consumptionDomain.Repository, error) {
	switch f.driver {
	case DriverPostgres:
		return consumptionPersistence.NewPostgresConsumptionRepository(f.pool), nil
	case DriverSQLite:
		return consumptionPersistence.NewSQLiteConsumptionRepository(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// ConsumptionReader creates the consumption read-side projections.
func (f *RepositoryFactory) ConsumptionReader() (ConsumptionReader, error) {
	switch f.driver {
	case DriverPostgres:
		return consumptionPersistence.NewPostgresConsumptionReader(f.pool), nil
	case DriverSQLite:
		return consumptionPersistence.NewSQLiteConsumptionReader(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// CustomerLookup creates the customer lookup.
func (f *RepositoryFactory) CustomerLookup() (customerDomain.Lookup, error) {
	switch f.driver {
	case DriverPostgres:
		return customerPersistence.NewPostgresCustomerLookup(f.pool), nil
	case DriverSQLite:
		return customerPersistence.NewSQLiteCustomerLookup(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Catalog creates the product catalog.
func (f *RepositoryFactory) Catalog() (ProductCatalog, error) {
	switch f.driver {
	case DriverPostgres:
		return catalogPersistence.NewPostgresCatalog(f.pool), nil
	case DriverSQLite:
		return catalogPersistence.NewSQLiteCatalog(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OutboxRepository creates the outbox repository.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case DriverPostgres:
		return outbox.NewPostgresRepository(f.pool), nil
	case DriverSQLite:
		return outbox.NewSQLiteRepository(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// UnitOfWork creates the transactional unit of work.
func (f *RepositoryFactory) UnitOfWork() (sharedApplication.UnitOfWork, error) {
	switch f.driver {
	case DriverPostgres:
		return sharedPersistence.NewPostgresUnitOfWork(f.pool), nil
	case DriverSQLite:
		return sharedPersistence.NewSQLiteUnitOfWork(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}
