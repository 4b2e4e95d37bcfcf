// Package queries holds the consumption context's read-side handlers.
package queries

import (
	"context"
	"time"

	"github.com/comanda-app/comanda/internal/consumption/domain"
	"github.com/google/uuid"
)

// ConsumptionSummaryDTO is a data transfer object for tab listings.
type ConsumptionSummaryDTO struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	TotalAmount int64
	Status      string
	CreatedAt   time.Time
}

// ListCustomerConsumptionsQuery contains the parameters for listing a
// customer's tabs.
type ListCustomerConsumptionsQuery struct {
	CustomerID uuid.UUID
	Status     string // "", "DRAFT", "PENDING", "PAID", "OVERDUE"
	Payable    bool   // Only tabs that can still be paid
}

// ListCustomerConsumptionsHandler handles the ListCustomerConsumptionsQuery.
type ListCustomerConsumptionsHandler struct {
	summaries domain.SummaryReader
}

// NewListCustomerConsumptionsHandler creates a new ListCustomerConsumptionsHandler.
func NewListCustomerConsumptionsHandler(summaries domain.SummaryReader) *ListCustomerConsumptionsHandler {
	return &ListCustomerConsumptionsHandler{summaries: summaries}
}

// Handle executes the ListCustomerConsumptionsQuery.
func (h *ListCustomerConsumptionsHandler) Handle(ctx context.Context, query ListCustomerConsumptionsQuery) ([]ConsumptionSummaryDTO, error) {
	summaries, err := h.summaries.FindByCustomerID(ctx, query.CustomerID)
	if err != nil {
		return nil, err
	}

	if query.Status != "" {
		summaries = filterByStatus(summaries, domain.Status(query.Status))
	}
	if query.Payable {
		summaries = filterPayable(summaries)
	}

	return toSummaryDTOs(summaries), nil
}

func filterByStatus(summaries []domain.Summary, status domain.Status) []domain.Summary {
	var filtered []domain.Summary
	for _, s := range summaries {
		if s.Status == status {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func filterPayable(summaries []domain.Summary) []domain.Summary {
	var filtered []domain.Summary
	for _, s := range summaries {
		if s.Status.IsPayable() {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func toSummaryDTOs(summaries []domain.Summary) []ConsumptionSummaryDTO {
	dtos := make([]ConsumptionSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s)
	}
	return dtos
}

func toSummaryDTO(s domain.Summary) ConsumptionSummaryDTO {
	return ConsumptionSummaryDTO{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		TotalAmount: s.TotalAmount,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
	}
}
