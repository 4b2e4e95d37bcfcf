// Package domain holds the customer context's model and ports.
package domain

import (
	"context"
	"errors"

	shared "github.com/comanda-app/comanda/internal/shared/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer identifies who a tab belongs to and who a payment is charged to.
type Customer struct {
	ID       uuid.UUID
	FullName string
	TaxID    shared.TaxID
}

// Lookup resolves customers for the consumption and payment flows.
type Lookup interface {
	// Exists reports whether the customer is registered.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindByID returns the customer, or (nil, nil) when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByTaxID returns the customer with the given tax id, or (nil, nil) when absent.
	FindByTaxID(ctx context.Context, taxID shared.TaxID) (*Customer, error)
}
