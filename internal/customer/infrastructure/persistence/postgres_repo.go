// Package persistence implements the customer context's lookups.
package persistence

import (
	"context"
	"errors"

	"github.com/comanda-app/comanda/internal/customer/domain"
	shared "github.com/comanda-app/comanda/internal/shared/domain"
	sharedPersistence "github.com/comanda-app/comanda/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCustomerLookup implements domain.Lookup using PostgreSQL.
type PostgresCustomerLookup struct {
	pool *pgxpool.Pool
}

// NewPostgresCustomerLookup creates a new PostgreSQL customer lookup.
func NewPostgresCustomerLookup(pool *pgxpool.Pool) *PostgresCustomerLookup {
	return &PostgresCustomerLookup{pool: pool}
}

// Exists reports whether the customer is registered.
func (r *PostgresCustomerLookup) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	var exists bool
	err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// FindByID returns the customer, or (nil, nil) when absent.
func (r *PostgresCustomerLookup) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return r.findOne(ctx, `SELECT id, full_name, tax_id FROM customers WHERE id = $1`, id)
}

// FindByTaxID returns the customer with the given tax id, or (nil, nil) when absent.
func (r *PostgresCustomerLookup) FindByTaxID(ctx context.Context, taxID shared.TaxID) (*domain.Customer, error) {
	return r.findOne(ctx, `SELECT id, full_name, tax_id FROM customers WHERE tax_id = $1`, taxID.String())
}

func (r *PostgresCustomerLookup) findOne(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	var (
		customer domain.Customer
		rawTaxID string
	)
	err := exec.QueryRow(ctx, query, arg).Scan(&customer.ID, &customer.FullName, &rawTaxID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	customer.TaxID, err = shared.NewTaxID(rawTaxID)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
