// Package persistence implements the consumption context's repositories.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/comanda-app/comanda/internal/consumption/domain"
	sharedPersistence "github.com/comanda-app/comanda/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOptimisticLocking is returned when a concurrent update won the version race.
var ErrOptimisticLocking = errors.New("optimistic locking conflict")

// PostgresConsumptionRepository implements domain.Repository using PostgreSQL.
type PostgresConsumptionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresConsumptionRepository creates a new PostgreSQL consumption repository.
func NewPostgresConsumptionRepository(pool *pgxpool.Pool) *PostgresConsumptionRepository {
	return &PostgresConsumptionRepository{pool: pool}
}

// Save persists the aggregate and its item lines. The aggregate row is
// upserted with a version check; the lines are rewritten as a set.
func (r *PostgresConsumptionRepository) Save(ctx context.Context, c *domain.Consumption) error {
	if _, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		return r.save(ctx, c)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	txCtx := sharedPersistence.WithTx(ctx, tx, true)
	if err := r.save(txCtx, c); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresConsumptionRepository) save(ctx context.Context, c *domain.Consumption) error {
	query := `
		INSERT INTO consumptions (
			id, customer_id, status, payment_reference, paid_at,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			payment_reference = EXCLUDED.payment_reference,
			paid_at = EXCLUDED.paid_at,
			version = consumptions.version + 1,
			updated_at = NOW()
		WHERE consumptions.version = $6
		RETURNING version
	`

	var paymentReference *string
	if ref := c.PaymentReference(); ref != "" {
		paymentReference = &ref
	}

	exec := sharedPersistence.Executor(ctx, r.pool)

	var newVersion int
	err := exec.QueryRow(ctx, query,
		c.ID(),
		c.CustomerID(),
		string(c.Status()),
		paymentReference,
		c.PaidAt(),
		c.Version(),
		c.CreatedAt(),
		c.UpdatedAt(),
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOptimisticLocking
		}
		return err
	}

	if _, err := exec.Exec(ctx, `DELETE FROM consumption_items WHERE consumption_id = $1`, c.ID()); err != nil {
		return err
	}
	for pos, item := range c.Items() {
		_, err := exec.Exec(ctx, `
			INSERT INTO consumption_items (consumption_id, position, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ID(), pos, item.ProductID(), item.Quantity(), item.UnitPrice())
		if err != nil {
			return err
		}
	}

	return nil
}

// FindByID retrieves the aggregate, or (nil, nil) when it does not exist.
func (r *PostgresConsumptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Consumption, error) {
	query := `
		SELECT id, customer_id, status, payment_reference, paid_at,
		       version, created_at, updated_at
		FROM consumptions
		WHERE id = $1
	`

	exec := sharedPersistence.Executor(ctx, r.pool)

	var (
		consumptionID    uuid.UUID
		customerID       uuid.UUID
		status           string
		paymentReference *string
		paidAt           *time.Time
		version          int
		createdAt        time.Time
		updatedAt        time.Time
	)
	err := exec.QueryRow(ctx, query, id).Scan(
		&consumptionID,
		&customerID,
		&status,
		&paymentReference,
		&paidAt,
		&version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.findItems(ctx, consumptionID)
	if err != nil {
		return nil, err
	}

	ref := ""
	if paymentReference != nil {
		ref = *paymentReference
	}

	return domain.Rehydrate(
		consumptionID, customerID, domain.Status(status),
		items, ref, paidAt,
		createdAt, updatedAt, version,
	), nil
}

func (r *PostgresConsumptionRepository) findItems(ctx context.Context, consumptionID uuid.UUID) ([]domain.Item, error) {
	query := `
		SELECT product_id, quantity, unit_price
		FROM consumption_items
		WHERE consumption_id = $1
		ORDER BY position
	`

	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, consumptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var (
			productID uuid.UUID
			quantity  int64
			unitPrice int64
		)
		if err := rows.Scan(&productID, &quantity, &unitPrice); err != nil {
			return nil, err
		}

		item, err := domain.NewItem(productID, quantity, unitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
