package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/comanda-app/comanda/internal/consumption/domain"
	sharedPersistence "github.com/comanda-app/comanda/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteConsumptionRepository implements domain.Repository using SQLite.
// Used in local mode.
type SQLiteConsumptionRepository struct {
	db *sql.DB
}

// NewSQLiteConsumptionRepository creates a new SQLite consumption repository.
func NewSQLiteConsumptionRepository(db *sql.DB) *SQLiteConsumptionRepository {
	return &SQLiteConsumptionRepository{db: db}
}

// Save persists the aggregate and its item lines.
func (r *SQLiteConsumptionRepository) Save(ctx context.Context, c *domain.Consumption) error {
	if _, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return r.save(ctx, c)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txCtx := sharedPersistence.WithSQLiteTx(ctx, tx, true)
	if err := r.save(txCtx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteConsumptionRepository) save(ctx context.Context, c *domain.Consumption) error {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)

	var paidAt any
	if t := c.PaidAt(); t != nil {
		paidAt = t.UTC().Format(time.RFC3339Nano)
	}
	var paymentReference any
	if ref := c.PaymentReference(); ref != "" {
		paymentReference = ref
	}

	result, err := querier.ExecContext(ctx, `
		INSERT INTO consumptions (
			id, customer_id, status, payment_reference, paid_at,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			payment_reference = excluded.payment_reference,
			paid_at = excluded.paid_at,
			version = consumptions.version + 1,
			updated_at = excluded.updated_at
		WHERE consumptions.version = ?
	`,
		c.ID().String(),
		c.CustomerID().String(),
		string(c.Status()),
		paymentReference,
		paidAt,
		c.Version(),
		c.CreatedAt().UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
		c.Version(),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOptimisticLocking
	}

	if _, err := querier.ExecContext(ctx, `DELETE FROM consumption_items WHERE consumption_id = ?`, c.ID().String()); err != nil {
		return err
	}
	for pos, item := range c.Items() {
		_, err := querier.ExecContext(ctx, `
			INSERT INTO consumption_items (consumption_id, position, product_id, quantity, unit_price)
			VALUES (?, ?, ?, ?, ?)
		`, c.ID().String(), pos, item.ProductID().String(), item.Quantity(), item.UnitPrice())
		if err != nil {
			return err
		}
	}

	return nil
}

// FindByID retrieves the aggregate, or (nil, nil) when it does not exist.
func (r *SQLiteConsumptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Consumption, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)

	var (
		rawID            string
		rawCustomerID    string
		status           string
		paymentReference sql.NullString
		paidAt           sql.NullString
		version          int
		createdAt        string
		updatedAt        string
	)
	err := querier.QueryRowContext(ctx, `
		SELECT id, customer_id, status, payment_reference, paid_at,
		       version, created_at, updated_at
		FROM consumptions
		WHERE id = ?
	`, id.String()).Scan(
		&rawID,
		&rawCustomerID,
		&status,
		&paymentReference,
		&paidAt,
		&version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	consumptionID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}
	customerID, err := uuid.Parse(rawCustomerID)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, err
	}

	var paid *time.Time
	if paidAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, paidAt.String)
		if err != nil {
			return nil, err
		}
		paid = &t
	}

	items, err := r.findItems(ctx, consumptionID)
	if err != nil {
		return nil, err
	}

	return domain.Rehydrate(
		consumptionID, customerID, domain.Status(status),
		items, paymentReference.String, paid,
		created, updated, version,
	), nil
}

func (r *SQLiteConsumptionRepository) findItems(ctx context.Context, consumptionID uuid.UUID) ([]domain.Item, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	rows, err := querier.QueryContext(ctx, `
		SELECT product_id, quantity, unit_price
		FROM consumption_items
		WHERE consumption_id = ?
		ORDER BY position
	`, consumptionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var (
			rawProductID string
			quantity     int64
			unitPrice    int64
		)
		if err := rows.Scan(&rawProductID, &quantity, &unitPrice); err != nil {
			return nil, err
		}

		productID, err := uuid.Parse(rawProductID)
		if err != nil {
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
