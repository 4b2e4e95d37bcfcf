// Package queries holds the customer context's read-side handlers.
package queries

import (
	"context"

	"github.com/comanda-app/comanda/internal/customer/domain"
	shared "github.com/comanda-app/comanda/internal/shared/domain"
	"github.com/google/uuid"
)

// CustomerDTO is a data transfer object for customers.
type CustomerDTO struct {
	ID       uuid.UUID
	FullName string
	TaxID    string
}

// IdentifyCustomerQuery resolves a customer from either their id or their tax
// id. The tax id path is what the venue's front desk uses.
type IdentifyCustomerQuery struct {
	CustomerID uuid.UUID
	TaxID      string
}

// IdentifyCustomerHandler handles the IdentifyCustomerQuery.
type IdentifyCustomerHandler struct {
	customers domain.Lookup
}

// NewIdentifyCustomerHandler creates a new IdentifyCustomerHandler.
func NewIdentifyCustomerHandler(customers domain.Lookup) *IdentifyCustomerHandler {
	return &IdentifyCustomerHandler{customers: customers}
}

// Handle executes the IdentifyCustomerQuery. The id wins when both are given.
func (h *IdentifyCustomerHandler) Handle(ctx context.Context, query IdentifyCustomerQuery) (*CustomerDTO, error) {
	customer, err := h.find(ctx, query)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	return &CustomerDTO{
		ID:       customer.ID,
		FullName: customer.FullName,
		TaxID:    customer.TaxID.String(),
	}, nil
}

func (h *IdentifyCustomerHandler) find(ctx context.Context, query IdentifyCustomerQuery) (*domain.Customer, error) {
	if query.CustomerID != uuid.Nil {
		return h.customers.FindByID(ctx, query.CustomerID)
	}

	taxID, err := shared.NewTaxID(query.TaxID)
	if err != nil {
		return nil, err
	}
	return h.customers.FindByTaxID(ctx, taxID)
}
