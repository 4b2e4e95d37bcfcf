// Package app wires the application's dependencies.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	catalogQueries "github.com/comanda-app/comanda/internal/catalog/application/queries"
	catalogCache "github.com/comanda-app/comanda/internal/catalog/infrastructure/cache"
	"github.com/comanda-app/comanda/internal/consumption/application/commands"
	consumptionQueries "github.com/comanda-app/comanda/internal/consumption/application/queries"
	consumptionDomain "github.com/comanda-app/comanda/internal/consumption/domain"
	customerQueries "github.com/comanda-app/comanda/internal/customer/application/queries"
	customerDomain "github.com/comanda-app/comanda/internal/customer/domain"
	paymentDomain "github.com/comanda-app/comanda/internal/payment/domain"
	"github.com/comanda-app/comanda/internal/payment/infrastructure/pix"
	sharedApplication "github.com/comanda-app/comanda/internal/shared/application"
	"github.com/comanda-app/comanda/internal/shared/infrastructure/eventbus"
	"github.com/comanda-app/comanda/internal/shared/infrastructure/outbox"
	"github.com/comanda-app/comanda/migrations"
	"github.com/comanda-app/comanda/pkg/config"
	"github.com/comanda-app/comanda/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database (one of the two is set, depending on the driver)
	DB       *pgxpool.Pool
	SQLiteDB *sql.DB

	// Redis (nil when the catalog cache is disabled or unreachable)
	RedisClient *redis.Client

	// Repositories
	ConsumptionRepo   consumptionDomain.Repository
	ConsumptionReader ConsumptionReader
	CustomerLookup    customerDomain.Lookup
	Catalog           ProductCatalog
	OutboxRepo        outbox.Repository

	// Publishers
	EventPublisher eventbus.Publisher

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Payment gateway
	PixGateway paymentDomain.Gateway

	// Command handlers
	RegisterConsumptionHandler *commands.RegisterConsumptionHandler
	ConfirmPaymentHandler      *commands.ConfirmPaymentHandler
	GeneratePixPaymentHandler  *commands.GeneratePixPaymentHandler

	// Query handlers
	ListCustomerConsumptionsHandler *consumptionQueries.ListCustomerConsumptionsHandler
	GetConsumptionDetailsHandler    *consumptionQueries.GetConsumptionDetailsHandler
	IdentifyCustomerHandler         *customerQueries.IdentifyCustomerHandler
	ListAvailableProductsHandler    *catalogQueries.ListAvailableProductsHandler

	// Outbox processor
	OutboxProcessor *outbox.Processor

	// Health checks
	Health *observability.HealthRegistry
}

// NewContainer creates and wires all dependencies for the configured driver.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Health: observability.NewHealthRegistry(),
	}

	factory, err := c.connectDatabase(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.buildRepositories(factory); err != nil {
		c.Close()
		return nil, err
	}

	c.connectRedis(ctx)
	if err := c.connectEventBus(); err != nil {
		c.Close()
		return nil, err
	}
	c.buildPixGateway()
	c.buildHandlers()

	processorCfg := outbox.DefaultProcessorConfig()
	processorCfg.PollInterval = cfg.OutboxPollInterval
	processorCfg.BatchSize = cfg.OutboxBatchSize
	processorCfg.MaxRetries = cfg.OutboxMaxRetries
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, logger)

	return c, nil
}

func (c *Container) connectDatabase(ctx context.Context) (*RepositoryFactory, error) {
	if c.Config.UseSQLite() {
		db, err := sql.Open("sqlite", c.Config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// SQLite allows a single writer; a second pooled connection would also
		// see a different database when the path is ":memory:".
		db.SetMaxOpenConns(1)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
		}
		if err := migrations.RunSQLite(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		c.SQLiteDB = db
		c.Health.Register("database", observability.DatabaseHealthChecker(db.PingContext))
		c.Logger.Info("connected to database", "driver", DriverSQLite, "path", c.Config.SQLitePath)
		return NewSQLiteRepositoryFactory(db), nil
	}

	pool, err := pgxpool.New(ctx, c.Config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	c.DB = pool
	c.Health.Register("database", observability.DatabaseHealthChecker(pool.Ping))
	c.Logger.Info("connected to database", "driver", DriverPostgres)
	return NewPostgresRepositoryFactory(pool), nil
}

func (c *Container) buildRepositories(factory *RepositoryFactory) error {
	var err error
	if c.ConsumptionRepo, err = factory.ConsumptionRepository(); err != nil {
		return err
	}
	if c.ConsumptionReader, err = factory.ConsumptionReader(); err != nil {
		return err
	}
	if c.CustomerLookup, err = factory.CustomerLookup(); err != nil {
		return err
	}
	if c.Catalog, err = factory.Catalog(); err != nil {
		return err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return err
	}
	if c.UnitOfWork, err = factory.UnitOfWork(); err != nil {
		return err
	}
	return nil
}

// connectRedis wires the catalog cache. Redis is optional: when it is not
// reachable the catalog serves straight from the database.
func (c *Container) connectRedis(ctx context.Context) {
	if c.Config.RedisURL == "" {
		return
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid Redis URL, catalog cache disabled", "error", err)
		return
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("Redis not available, catalog cache disabled", "error", err)
		client.Close()
		return
	}

	c.RedisClient = client
	c.Catalog = catalogCache.NewRedisCatalog(client, c.Catalog, c.Catalog, c.Config.CatalogCacheTTL, c.Logger)
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis, catalog cache enabled", "ttl", c.Config.CatalogCacheTTL)
}

func (c *Container) connectEventBus() error {
	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		// Fall back to noop publisher in development
		if c.Config.IsDevelopment() {
			c.Logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
			return nil
		}
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	c.EventPublisher = publisher
	c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.HealthCheck))
	return nil
}

func (c *Container) buildPixGateway() {
	if c.Config.PixBaseURL == "" {
		c.Logger.Warn("Pix gateway not configured, consolidated payments will fail")
	}

	pixCfg := pix.DefaultConfig()
	pixCfg.BaseURL = c.Config.PixBaseURL
	pixCfg.TokenURL = c.Config.PixTokenURL
	pixCfg.ClientID = c.Config.PixClientID
	pixCfg.ClientSecret = c.Config.PixClientSecret
	c.PixGateway = pix.NewClient(pixCfg, c.Logger)
}

func (c *Container) buildHandlers() {
	c.RegisterConsumptionHandler = commands.NewRegisterConsumptionHandler(
		c.ConsumptionRepo, c.CustomerLookup, c.Catalog, c.OutboxRepo, c.UnitOfWork)
	c.ConfirmPaymentHandler = commands.NewConfirmPaymentHandler(
		c.ConsumptionRepo, c.OutboxRepo, c.UnitOfWork)
	c.GeneratePixPaymentHandler = commands.NewGeneratePixPaymentHandler(
		c.ConsumptionRepo, c.CustomerLookup, c.PixGateway)

	c.ListCustomerConsumptionsHandler = consumptionQueries.NewListCustomerConsumptionsHandler(c.ConsumptionReader)
	c.GetConsumptionDetailsHandler = consumptionQueries.NewGetConsumptionDetailsHandler(c.ConsumptionReader)
	c.IdentifyCustomerHandler = customerQueries.NewIdentifyCustomerHandler(c.CustomerLookup)
	c.ListAvailableProductsHandler = catalogQueries.NewListAvailableProductsHandler(c.Catalog)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}

	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Info("SQLite connection closed")
		}
	}
}
