package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/comanda-app/comanda/internal/catalog/domain"
	sharedPersistence "github.com/comanda-app/comanda/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteCatalog implements domain.Lookup and domain.Catalog using SQLite.
// Used in local mode.
type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLiteCatalog creates a new SQLite catalog.
func NewSQLiteCatalog(db *sql.DB) *SQLiteCatalog {
	return &SQLiteCatalog{db: db}
}

// FindByID returns the product, or (nil, nil) when absent.
func (r *SQLiteCatalog) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)

	var (
		rawID  string
		name   string
		price  int64
		active int
	)
	err := querier.QueryRowContext(ctx,
		`SELECT id, name, price, active FROM products WHERE id = ?`, id.String(),
	).Scan(&rawID, &name, &price, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	productID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}
	return &domain.Product{ID: productID, Name: name, Price: price, Active: active == 1}, nil
}

// ListAvailable lists active products ordered by name.
func (r *SQLiteCatalog) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	rows, err := querier.QueryContext(ctx,
		`SELECT id, name, price, active FROM products WHERE active = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			rawID  string
			name   string
			price  int64
			active int
		)
		if err := rows.Scan(&rawID, &name, &price, &active); err != nil {
			return nil, err
		}

		productID, err := uuid.Parse(rawID)
		if err != nil {
			return nil, err
		}
		products = append(products, domain.Product{ID: productID, Name: name, Price: price, Active: active == 1})
	}
	return products, rows.Err()
}
