package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists consumption aggregates.
type Repository interface {
	// Save persists the aggregate, creating it if needed.
	Save(ctx context.Context, c *Consumption) error

	// FindByID returns the aggregate, or (nil, nil) when it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Consumption, error)
}

// Summary is the read-side projection of a consumption without its lines.
type Summary struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	TotalAmount int64
	Status      Status
	CreatedAt   time.Time
}

// ItemLine is the read-side projection of one item line.
type ItemLine struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice int64
	Total     int64
}

// Details is the read-side projection of a consumption with its lines.
type Details struct {
	Summary
	PaymentReference string
	PaidAt           *time.Time
	Items            []ItemLine
}

// SummaryReader serves the customer-tab listing.
type SummaryReader interface {
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]Summary, error)
}

// DetailsReader serves single-tab detail lookups. Returns (nil, nil) when the
// consumption does not exist.
type DetailsReader interface {
	FindDetailsByID(ctx context.Context, id uuid.UUID) (*Details, error)
}
