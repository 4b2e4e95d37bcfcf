package domain

import (
	"strings"
	"time"

	shared "github.com/comanda-app/comanda/internal/shared/domain"
	"github.com/google/uuid"
)

// Status represents the consumption lifecycle state.
type Status string

const (
	StatusDraft   Status = "DRAFT"
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// IsPayable reports whether a consumption in this status can accept a payment.
func (s Status) IsPayable() bool {
	return s == StatusPending || s == StatusOverdue
}

// Item is one line of a consumption: a product, how much of it, and the unit
// price it was sold at. Immutable once constructed.
type Item struct {
	productID uuid.UUID
	quantity  int64
	unitPrice int64
}

// NewItem creates a validated item. Prices are in cents.
func NewItem(productID uuid.UUID, quantity, unitPrice int64) (Item, error) {
	if productID == uuid.Nil {
		return Item{}, ErrProductRequired
	}
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return Item{}, ErrInvalidUnitPrice
	}
	return Item{productID: productID, quantity: quantity, unitPrice: unitPrice}, nil
}

func (i Item) ProductID() uuid.UUID { return i.productID }
func (i Item) Quantity() int64      { return i.quantity }
func (i Item) UnitPrice() int64     { return i.unitPrice }

// Total returns the line total in cents.
func (i Item) Total() int64 {
	return i.quantity * i.unitPrice
}

// Consumption is a customer's running tab in the venue. Items can only be
// added while the tab is a draft; registering freezes the item set and opens
// the tab for payment.
type Consumption struct {
	shared.BaseAggregateRoot
	customerID       uuid.UUID
	status           Status
	items            []Item
	paymentReference string
	paidAt           *time.Time
}

// New creates a draft consumption for the given customer.
func New(customerID uuid.UUID) (*Consumption, error) {
	if customerID == uuid.Nil {
		return nil, ErrCustomerRequired
	}
	return &Consumption{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		customerID:        customerID,
		status:            StatusDraft,
	}, nil
}

// Rehydrate recreates a consumption from persisted state. It bypasses the
// lifecycle checks and must only be called by repositories.
func Rehydrate(
	id uuid.UUID,
	customerID uuid.UUID,
	status Status,
	items []Item,
	paymentReference string,
	paidAt *time.Time,
	createdAt, updatedAt time.Time,
	version int,
) *Consumption {
	return &Consumption{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(id, createdAt, updatedAt, version),
		customerID:        customerID,
		status:            status,
		items:             append([]Item(nil), items...),
		paymentReference:  paymentReference,
		paidAt:            paidAt,
	}
}

func (c *Consumption) CustomerID() uuid.UUID     { return c.customerID }
func (c *Consumption) Status() Status            { return c.status }
func (c *Consumption) PaymentReference() string  { return c.paymentReference }
func (c *Consumption) PaidAt() *time.Time        { return c.paidAt }
func (c *Consumption) IsPaid() bool              { return c.status == StatusPaid }

// Items returns the item lines in insertion order.
func (c *Consumption) Items() []Item {
	return append([]Item(nil), c.items...)
}

// TotalAmount is the sum of all line totals in cents. It is always derived
// from the items, never cached.
func (c *Consumption) TotalAmount() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Total()
	}
	return total
}

// AddItem appends a line to a draft consumption. A product may appear at
// most once per consumption.
func (c *Consumption) AddItem(productID uuid.UUID, quantity, unitPrice int64) error {
	if c.status != StatusDraft {
		return ErrNotDraft
	}

	item, err := NewItem(productID, quantity, unitPrice)
	if err != nil {
		return err
	}

	for _, existing := range c.items {
		if existing.productID == productID {
			return ErrDuplicateProduct
		}
	}

	c.items = append(c.items, item)
	c.Touch()
	return nil
}

// Register finalizes a draft consumption and opens it for payment.
func (c *Consumption) Register() error {
	if c.status != StatusDraft {
		return ErrNotDraft
	}
	if len(c.items) == 0 {
		return ErrNoItems
	}
	if c.TotalAmount() <= 0 {
		return ErrInvalidTotalAmount
	}

	c.status = StatusPending
	c.Touch()
	c.AddDomainEvent(NewConsumptionRegistered(c.ID(), c.customerID, c.TotalAmount()))
	return nil
}

// MarkAsOverdue flags a pending consumption whose payment window has passed.
// An overdue consumption remains payable.
func (c *Consumption) MarkAsOverdue() error {
	if c.status != StatusPending {
		return &TransitionError{From: c.status, To: StatusOverdue}
	}

	c.status = StatusOverdue
	c.Touch()
	c.AddDomainEvent(NewConsumptionOverdue(c.ID(), c.customerID))
	return nil
}

// MarkAsPaid records an external payment and closes the consumption. Paid is
// terminal: a second confirmation fails with ErrAlreadyPaid.
func (c *Consumption) MarkAsPaid(paymentReference string) error {
	paymentReference = strings.TrimSpace(paymentReference)
	if paymentReference == "" {
		return ErrPaymentReferenceRequired
	}
	if c.status == StatusPaid {
		return ErrAlreadyPaid
	}
	if !c.status.IsPayable() {
		return &TransitionError{From: c.status, To: StatusPaid}
	}
	if c.TotalAmount() <= 0 {
		return ErrInvalidTotalAmount
	}

	now := time.Now().UTC()
	c.status = StatusPaid
	c.paymentReference = paymentReference
	c.paidAt = &now
	c.Touch()
	c.AddDomainEvent(NewConsumptionPaid(c.ID(), c.customerID, paymentReference, c.TotalAmount()))
	return nil
}
