package domain

import (
	shared "github.com/comanda-app/comanda/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Consumption"

	RoutingKeyRegistered = "venue.consumption.registered"
	RoutingKeyPaid       = "venue.consumption.paid"
	RoutingKeyOverdue    = "venue.consumption.overdue"
)

// ConsumptionRegistered is emitted when a draft consumption is finalized.
type ConsumptionRegistered struct {
	shared.BaseEvent
	CustomerID  uuid.UUID `json:"customer_id"`
	TotalAmount int64     `json:"total_amount"`
}

// NewConsumptionRegistered creates a ConsumptionRegistered event.
func NewConsumptionRegistered(consumptionID, customerID uuid.UUID, totalAmount int64) *ConsumptionRegistered {
	return &ConsumptionRegistered{
		BaseEvent:   shared.NewBaseEvent(consumptionID, AggregateType, RoutingKeyRegistered),
		CustomerID:  customerID,
		TotalAmount: totalAmount,
	}
}

// ConsumptionPaid is emitted when a payment is confirmed.
type ConsumptionPaid struct {
	shared.BaseEvent
	CustomerID       uuid.UUID `json:"customer_id"`
	PaymentReference string    `json:"payment_reference"`
	TotalAmount      int64     `json:"total_amount"`
}

// NewConsumptionPaid creates a ConsumptionPaid event.
func NewConsumptionPaid(consumptionID, customerID uuid.UUID, paymentReference string, totalAmount int64) *ConsumptionPaid {
	return &ConsumptionPaid{
		BaseEvent:        shared.NewBaseEvent(consumptionID, AggregateType, RoutingKeyPaid),
		CustomerID:       customerID,
		PaymentReference: paymentReference,
		TotalAmount:      totalAmount,
	}
}

// ConsumptionOverdue is emitted when a pending consumption passes its payment window.
type ConsumptionOverdue struct {
	shared.BaseEvent
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewConsumptionOverdue creates a ConsumptionOverdue event.
func NewConsumptionOverdue(consumptionID, customerID uuid.UUID) *ConsumptionOverdue {
	return &ConsumptionOverdue{
		BaseEvent:  shared.NewBaseEvent(consumptionID, AggregateType, RoutingKeyOverdue),
		CustomerID: customerID,
	}
}
