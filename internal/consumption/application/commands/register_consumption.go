package commands

import (
	"context"
	"fmt"

	catalogDomain "github.com/comanda-app/comanda/internal/catalog/domain"
	"github.com/comanda-app/comanda/internal/consumption/domain"
	customerDomain "github.com/comanda-app/comanda/internal/customer/domain"
	sharedApplication "github.com/comanda-app/comanda/internal/shared/application"
	"github.com/comanda-app/comanda/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RegisterConsumptionItem is one requested line: what and how much. The unit
// price is always resolved from the catalog, never taken from the caller.
type RegisterConsumptionItem struct {
	ProductID uuid.UUID
	Quantity  int64
}

// RegisterConsumptionCommand opens and finalizes a tab in one step.
type RegisterConsumptionCommand struct {
	CustomerID uuid.UUID
	Items      []RegisterConsumptionItem
}

// RegisterConsumptionResult describes the registered tab.
type RegisterConsumptionResult struct {
	ConsumptionID uuid.UUID
	TotalAmount   int64
	Status        domain.Status
}

// RegisterConsumptionHandler handles the RegisterConsumptionCommand.
type RegisterConsumptionHandler struct {
	consumptions domain.Repository
	customers    customerDomain.Lookup
	products     catalogDomain.Lookup
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// NewRegisterConsumptionHandler creates a new RegisterConsumptionHandler.
func NewRegisterConsumptionHandler(
	consumptions domain.Repository,
	customers customerDomain.Lookup,
	products catalogDomain.Lookup,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *RegisterConsumptionHandler {
	return &RegisterConsumptionHandler{
		consumptions: consumptions,
		customers:    customers,
		products:     products,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle executes the RegisterConsumptionCommand. Items are priced and
// validated in caller-supplied order; the first failure aborts the whole
// operation and nothing is persisted.
func (h *RegisterConsumptionHandler) Handle(ctx context.Context, cmd RegisterConsumptionCommand) (*RegisterConsumptionResult, error) {
	exists, err := h.customers.Exists(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, customerDomain.ErrNotFound
	}

	consumption, err := domain.New(cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	for _, item := range cmd.Items {
		product, err := h.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %s", catalogDomain.ErrNotFound, item.ProductID)
		}

		if err := consumption.AddItem(product.ID, item.Quantity, product.Price); err != nil {
			return nil, err
		}
	}

	if err := consumption.Register(); err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.consumptions.Save(txCtx, consumption); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, consumption, cmd.CustomerID)
	})
	if err != nil {
		return nil, err
	}

	return &RegisterConsumptionResult{
		ConsumptionID: consumption.ID(),
		TotalAmount:   consumption.TotalAmount(),
		Status:        consumption.Status(),
	}, nil
}

// saveEvents drains the aggregate's domain events into the outbox.
func saveEvents(ctx context.Context, repo outbox.Repository, consumption *domain.Consumption, customerID uuid.UUID) error {
	events := consumption.DomainEvents()
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(customerID))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return repo.SaveBatch(ctx, msgs)
}
