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

// SQLiteConsumptionReader serves the consumption read side from SQLite.
type SQLiteConsumptionReader struct {
	db *sql.DB
}

// NewSQLiteConsumptionReader creates a new SQLite consumption reader.
func NewSQLiteConsumptionReader(db *sql.DB) *SQLiteConsumptionReader {
	return &SQLiteConsumptionReader{db: db}
}

// FindByCustomerID lists the customer's tabs, newest first.
func (r *SQLiteConsumptionReader) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]domain.Summary, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	rows, err := querier.QueryContext(ctx, `
		SELECT c.id, c.customer_id,
		       COALESCE(SUM(i.quantity * i.unit_price), 0),
		       c.status, c.created_at
		FROM consumptions c
		LEFT JOIN consumption_items i ON i.consumption_id = c.id
		WHERE c.customer_id = ?
		GROUP BY c.id, c.customer_id, c.status, c.created_at
		ORDER BY c.created_at DESC
	`, customerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.Summary
	for rows.Next() {
		var (
			rawID         string
			rawCustomerID string
			totalAmount   int64
			status        string
			createdAt     string
		)
		if err := rows.Scan(&rawID, &rawCustomerID, &totalAmount, &status, &createdAt); err != nil {
			return nil, err
		}

		s := domain.Summary{TotalAmount: totalAmount, Status: domain.Status(status)}
		if s.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		if s.CustomerID, err = uuid.Parse(rawCustomerID); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// FindDetailsByID returns the tab with its lines, or (nil, nil) when absent.
func (r *SQLiteConsumptionReader) FindDetailsByID(ctx context.Context, id uuid.UUID) (*domain.Details, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)

	var (
		rawID            string
		rawCustomerID    string
		status           string
		paymentReference sql.NullString
		paidAt           sql.NullString
		createdAt        string
	)
	err := querier.QueryRowContext(ctx, `
		SELECT id, customer_id, status, payment_reference, paid_at, created_at
		FROM consumptions
		WHERE id = ?
	`, id.String()).Scan(
		&rawID,
		&rawCustomerID,
		&status,
		&paymentReference,
		&paidAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var details domain.Details
	details.Status = domain.Status(status)
	details.PaymentReference = paymentReference.String
	if details.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	if details.CustomerID, err = uuid.Parse(rawCustomerID); err != nil {
		return nil, err
	}
	if details.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, paidAt.String)
		if err != nil {
			return nil, err
		}
		details.PaidAt = &t
	}

	rows, err := querier.QueryContext(ctx, `
		SELECT product_id, quantity, unit_price
		FROM consumption_items
		WHERE consumption_id = ?
		ORDER BY position
	`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rawProductID string
			line         domain.ItemLine
		)
		if err := rows.Scan(&rawProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		if line.ProductID, err = uuid.Parse(rawProductID); err != nil {
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
