package commands

import (
	"context"

	"github.com/comanda-app/comanda/internal/consumption/domain"
	sharedApplication "github.com/comanda-app/comanda/internal/shared/application"
	"github.com/comanda-app/comanda/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ConfirmPaymentCommand marks a single tab as paid, usually triggered by the
// payment provider's callback.
type ConfirmPaymentCommand struct {
	ConsumptionID    uuid.UUID
	PaymentReference string
}

// ConfirmPaymentHandler handles the ConfirmPaymentCommand.
type ConfirmPaymentHandler struct {
	consumptions domain.Repository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// NewConfirmPaymentHandler creates a new ConfirmPaymentHandler.
func NewConfirmPaymentHandler(
	consumptions domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *ConfirmPaymentHandler {
	return &ConfirmPaymentHandler{
		consumptions: consumptions,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle executes the ConfirmPaymentCommand. Nothing is persisted when the
// load or the state check fails.
func (h *ConfirmPaymentHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		consumption, err := h.consumptions.FindByID(txCtx, cmd.ConsumptionID)
		if err != nil {
			return err
		}
		if consumption == nil {
			return ErrConsumptionNotFound
		}

		if err := consumption.MarkAsPaid(cmd.PaymentReference); err != nil {
			return err
		}

		if err := h.consumptions.Save(txCtx, consumption); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, consumption, consumption.CustomerID())
	})
}
