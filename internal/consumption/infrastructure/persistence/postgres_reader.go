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

// PostgresConsumptionReader serves the consumption read side from PostgreSQL.
// Totals are computed from the item lines at query time.
type PostgresConsumptionReader struct {
	pool *pgxpool.Pool
}

// NewPostgresConsumptionReader creates a new PostgreSQL consumption reader.
func NewPostgresConsumptionReader(pool *pgxpool.Pool) *PostgresConsumptionReader {
	return &PostgresConsumptionReader{pool: pool}
}

// FindByCustomerID lists the customer's tabs, newest first.
func (r *PostgresConsumptionReader) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]domain.Summary, error) {
	query := `
		SELECT c.id, c.customer_id,
		       COALESCE(SUM(i.quantity * i.unit_price), 0),
		       c.status, c.created_at
		FROM consumptions c
		LEFT JOIN consumption_items i ON i.consumption_id = c.id
		WHERE c.customer_id = $1
		GROUP BY c.id, c.customer_id, c.status, c.created_at
		ORDER BY c.created_at DESC
	`

	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.Summary
	for rows.Next() {
		var (
			s      domain.Summary
			status string
		)
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.TotalAmount, &status, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Status = domain.Status(status)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// FindDetailsByID returns the tab with its lines, or (nil, nil) when absent.
func (r *PostgresConsumptionReader) FindDetailsByID(ctx context.Context, id uuid.UUID) (*domain.Details, error) {
	query := `
		SELECT id, customer_id, status, payment_reference, paid_at, created_at
		FROM consumptions
		WHERE id = $1
	`

	exec := sharedPersistence.Executor(ctx, r.pool)

	var (
		details          domain.Details
		status           string
		paymentReference *string
		paidAt           *time.Time
	)
	err := exec.QueryRow(ctx, query, id).Scan(
		&details.ID,
		&details.CustomerID,
		&status,
		&paymentReference,
		&paidAt,
		&details.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	details.Status = domain.Status(status)
	details.PaidAt = paidAt
	if paymentReference != nil {
		details.PaymentReference = *paymentReference
	}

	itemQuery := `
		SELECT product_id, quantity, unit_price
		FROM consumption_items
		WHERE consumption_id = $1
		ORDER BY position
	`
	rows, err := exec.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.ItemLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		line.Total = line.Quantity * line.UnitPrice
		details.TotalAmount += line.Total
		details.Items = append(details.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &details, nil
}
