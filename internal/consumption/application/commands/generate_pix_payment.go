package commands

import (
	"context"
	"strings"

	"github.com/comanda-app/comanda/internal/consumption/domain"
	customerDomain "github.com/comanda-app/comanda/internal/customer/domain"
	paymentDomain "github.com/comanda-app/comanda/internal/payment/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// chargeDescription labels consolidated charges on the payer's statement.
const chargeDescription = "Consolidated tab payment"

// GeneratePixPaymentCommand requests one Pix code covering the combined total
// of several tabs belonging to the same customer.
type GeneratePixPaymentCommand struct {
	ConsumptionIDs []uuid.UUID
}

// GeneratePixPaymentResult carries the aggregated amount and the provider's code.
type GeneratePixPaymentResult struct {
	Amount    int64
	PaymentID string
	Code      string
}

// GeneratePixPaymentHandler handles the GeneratePixPaymentCommand.
type GeneratePixPaymentHandler struct {
	consumptions domain.Repository
	customers    customerDomain.Lookup
	gateway      paymentDomain.Gateway
}

// NewGeneratePixPaymentHandler creates a new GeneratePixPaymentHandler.
func NewGeneratePixPaymentHandler(
	consumptions domain.Repository,
	customers customerDomain.Lookup,
	gateway paymentDomain.Gateway,
) *GeneratePixPaymentHandler {
	return &GeneratePixPaymentHandler{
		consumptions: consumptions,
		customers:    customers,
		gateway:      gateway,
	}
}

// Handle executes the GeneratePixPaymentCommand.
//
// Validation is ordered cheapest first: duplicate ids are rejected before any
// lookup runs, tab-level checks run before the customer profile is fetched,
// and the gateway is only called once every check has passed. No aggregate is
// mutated or persisted; confirmation arrives later through the provider
// callback (ConfirmPaymentCommand).
func (h *GeneratePixPaymentHandler) Handle(ctx context.Context, cmd GeneratePixPaymentCommand) (*GeneratePixPaymentResult, error) {
	if len(cmd.ConsumptionIDs) == 0 {
		return nil, ErrNoConsumptions
	}

	seen := make(map[uuid.UUID]struct{}, len(cmd.ConsumptionIDs))
	for _, id := range cmd.ConsumptionIDs {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateConsumptionIDs
		}
		seen[id] = struct{}{}
	}

	consumptions, err := h.loadAll(ctx, cmd.ConsumptionIDs)
	if err != nil {
		return nil, err
	}

	var missing []uuid.UUID
	for i, c := range consumptions {
		if c == nil {
			missing = append(missing, cmd.ConsumptionIDs[i])
		}
	}
	if len(missing) > 0 {
		return nil, &MissingConsumptionsError{IDs: missing}
	}

	customerID := consumptions[0].CustomerID()
	for _, c := range consumptions[1:] {
		if c.CustomerID() != customerID {
			return nil, ErrCustomerMismatch
		}
	}

	for _, c := range consumptions {
		switch {
		case c.IsPaid():
			return nil, domain.ErrAlreadyPaid
		case !c.Status().IsPayable():
			return nil, ErrNotPayable
		}
	}

	var totalAmount int64
	for _, c := range consumptions {
		totalAmount += c.TotalAmount()
	}
	if totalAmount <= 0 {
		return nil, domain.ErrInvalidTotalAmount
	}

	customer, err := h.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerDomain.ErrNotFound
	}

	code, err := h.gateway.GenerateCode(ctx, paymentDomain.Charge{
		ReferenceID: joinIDs(cmd.ConsumptionIDs),
		Amount:      totalAmount,
		Description: chargeDescription,
		Payer: paymentDomain.Payer{
			FullName: customer.FullName,
			TaxID:    customer.TaxID,
		},
	})
	if err != nil {
		return nil, err
	}

	return &GeneratePixPaymentResult{
		Amount:    totalAmount,
		PaymentID: code.PaymentID,
		Code:      code.Code,
	}, nil
}

// loadAll resolves every id concurrently. The result slice matches the input
// order so that the missing-ids report is deterministic.
func (h *GeneratePixPaymentHandler) loadAll(ctx context.Context, ids []uuid.UUID) ([]*domain.Consumption, error) {
	consumptions := make([]*domain.Consumption, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			c, err := h.consumptions.FindByID(gCtx, id)
			if err != nil {
				return err
			}
			consumptions[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return consumptions, nil
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, "-")
}
