package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCustomerRequired is returned when a consumption is created without a customer.
	ErrCustomerRequired = errors.New("customer id is required")

	// ErrProductRequired is returned when an item is added without a product.
	ErrProductRequired = errors.New("product id is required")

	// ErrInvalidQuantity is returned when an item quantity is not strictly positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrInvalidUnitPrice is returned when an item unit price is negative.
	ErrInvalidUnitPrice = errors.New("unit price cannot be negative")

	// ErrNotDraft is returned when a non-draft consumption is modified or registered.
	ErrNotDraft = errors.New("only a draft consumption can be modified")

	// ErrDuplicateProduct is returned when a product appears twice on one consumption.
	ErrDuplicateProduct = errors.New("product already added to this consumption")

	// ErrNoItems is returned when a consumption is registered without items.
	ErrNoItems = errors.New("consumption must have at least one item")

	// ErrInvalidTotalAmount is returned when the total is not strictly positive.
	ErrInvalidTotalAmount = errors.New("total amount must be greater than zero")

	// ErrAlreadyPaid is returned when a paid consumption is paid again.
	ErrAlreadyPaid = errors.New("consumption already paid")

	// ErrPaymentReferenceRequired is returned when payment confirmation lacks a reference.
	ErrPaymentReferenceRequired = errors.New("payment reference is required")

	// ErrIllegalTransition tags every status transition the lifecycle does not allow.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// TransitionError reports an attempt to move a consumption along an edge the
// lifecycle does not have. It matches ErrIllegalTransition under errors.Is.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition consumption from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
