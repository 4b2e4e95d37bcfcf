package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/comanda-app/comanda/internal/customer/domain"
	shared "github.com/comanda-app/comanda/internal/shared/domain"
	sharedPersistence "github.com/comanda-app/comanda/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteCustomerLookup implements domain.Lookup using SQLite. Used in local mode.
type SQLiteCustomerLookup struct {
	db *sql.DB
}

// NewSQLiteCustomerLookup creates a new SQLite customer lookup.
func NewSQLiteCustomerLookup(db *sql.DB) *SQLiteCustomerLookup {
	return &SQLiteCustomerLookup{db: db}
}

// Exists reports whether the customer is registered.
func (r *SQLiteCustomerLookup) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)

	var exists int
	err := querier.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE id = ?)`, id.String()).Scan(&exists)
	return exists == 1, err
}

// FindByID returns the customer, or (nil, nil) when absent.
func (r *SQLiteCustomerLookup) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return r.findOne(ctx, `SELECT id, full_name, tax_id FROM customers WHERE id = ?`, id.String())
}

// FindByTaxID returns the customer with the given tax id, or (nil, nil) when absent.
func (r *SQLiteCustomerLookup) FindByTaxID(ctx context.Context, taxID shared.TaxID) (*domain.Customer, error) {
	return r.findOne(ctx, `SELECT id, full_name, tax_id FROM customers WHERE tax_id = ?`, taxID.String())
}

func (r *SQLiteCustomerLookup) findOne(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)

	var (
		rawID    string
		fullName string
		rawTaxID string
	)
	err := querier.QueryRowContext(ctx, query, arg).Scan(&rawID, &fullName, &rawTaxID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}
	taxID, err := shared.NewTaxID(rawTaxID)
	if err != nil {
		return nil, err
	}

	return &domain.Customer{ID: id, FullName: fullName, TaxID: taxID}, nil
}
