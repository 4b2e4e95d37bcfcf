// Package domain holds the product catalog's model and ports.
package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a sellable catalog entry. Price is in cents.
type Product struct {
	ID     uuid.UUID
	Name   string
	Price  int64
	Active bool
}

// Lookup resolves the current price of a product. Consumptions never trust
// caller-supplied prices.
type Lookup interface {
	// FindByID returns the product, or (nil, nil) when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
}

// Catalog lists products offered by the venue.
type Catalog interface {
	ListAvailable(ctx context.Context) ([]Product, error)
}
