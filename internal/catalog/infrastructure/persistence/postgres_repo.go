// Package persistence implements the catalog context's lookups.
package persistence

import (
	"context"
	"errors"

	"github.com/comanda-app/comanda/internal/catalog/domain"
	sharedPersistence "github.com/comanda-app/comanda/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCatalog implements domain.Lookup and domain.Catalog using PostgreSQL.
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalog creates a new PostgreSQL catalog.
func NewPostgresCatalog(pool *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

// FindByID returns the product, or (nil, nil) when absent.
func (r *PostgresCatalog) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	var product domain.Product
	err := exec.QueryRow(ctx,
		`SELECT id, name, price, active FROM products WHERE id = $1`, id,
	).Scan(&product.ID, &product.Name, &product.Price, &product.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListAvailable lists active products ordered by name.
func (r *PostgresCatalog) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT id, name, price, active FROM products WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Active); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
