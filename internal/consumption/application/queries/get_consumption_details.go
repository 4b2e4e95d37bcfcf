package queries

import (
	"context"
	"errors"
	"time"

	"github.com/comanda-app/comanda/internal/consumption/domain"
	"github.com/google/uuid"
)

// ErrConsumptionNotFound is returned when a consumption is not found.
var ErrConsumptionNotFound = errors.New("consumption not found")

// ConsumptionItemDTO is a data transfer object for one item line.
type ConsumptionItemDTO struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice int64
	Total     int64
}

// ConsumptionDetailsDTO is a data transfer object for a single tab.
type ConsumptionDetailsDTO struct {
	ConsumptionSummaryDTO
	PaymentReference string
	PaidAt           *time.Time
	Items            []ConsumptionItemDTO
}

// GetConsumptionDetailsQuery contains the parameters for a single-tab lookup.
type GetConsumptionDetailsQuery struct {
	ConsumptionID uuid.UUID
}

// GetConsumptionDetailsHandler handles the GetConsumptionDetailsQuery.
type GetConsumptionDetailsHandler struct {
	details domain.DetailsReader
}

// NewGetConsumptionDetailsHandler creates a new GetConsumptionDetailsHandler.
func NewGetConsumptionDetailsHandler(details domain.DetailsReader) *GetConsumptionDetailsHandler {
	return &GetConsumptionDetailsHandler{details: details}
}

// Handle executes the GetConsumptionDetailsQuery.
func (h *GetConsumptionDetailsHandler) Handle(ctx context.Context, query GetConsumptionDetailsQuery) (*ConsumptionDetailsDTO, error) {
	details, err := h.details.FindDetailsByID(ctx, query.ConsumptionID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, ErrConsumptionNotFound
	}

	items := make([]ConsumptionItemDTO, len(details.Items))
	for i, line := range details.Items {
		items[i] = ConsumptionItemDTO{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     line.Total,
		}
	}

	return &ConsumptionDetailsDTO{
		ConsumptionSummaryDTO: toSummaryDTO(details.Summary),
		PaymentReference:      details.PaymentReference,
		PaidAt:                details.PaidAt,
		Items:                 items,
	}, nil
}
