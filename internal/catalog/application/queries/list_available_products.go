// Package queries holds the catalog context's read-side handlers.
package queries

import (
	"context"

	"github.com/comanda-app/comanda/internal/catalog/domain"
	"github.com/google/uuid"
)

// ProductDTO is a data transfer object for catalog entries.
type ProductDTO struct {
	ID    uuid.UUID
	Name  string
	Price int64
}

// ListAvailableProductsQuery contains the parameters for listing the catalog.
type ListAvailableProductsQuery struct{}

// ListAvailableProductsHandler handles the ListAvailableProductsQuery.
type ListAvailableProductsHandler struct {
	catalog domain.Catalog
}

// NewListAvailableProductsHandler creates a new ListAvailableProductsHandler.
func NewListAvailableProductsHandler(catalog domain.Catalog) *ListAvailableProductsHandler {
	return &ListAvailableProductsHandler{catalog: catalog}
}

// Handle executes the ListAvailableProductsQuery. Inactive products never
// reach the caller even when the reader returns them.
func (h *ListAvailableProductsHandler) Handle(ctx context.Context, _ ListAvailableProductsQuery) ([]ProductDTO, error) {
	products, err := h.catalog.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		if !p.Active {
			continue
		}
		dtos = append(dtos, ProductDTO{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
		})
	}
	return dtos, nil
}
