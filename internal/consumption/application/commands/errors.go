package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrConsumptionNotFound is returned when a requested consumption does not exist.
	ErrConsumptionNotFound = errors.New("consumption not found")

	// ErrNoConsumptions is returned when a batch payment request names no tabs.
	ErrNoConsumptions = errors.New("at least one consumption id is required")

	// ErrDuplicateConsumptionIDs is returned when a batch payment request
	// repeats an id. Rejected before any lookup runs.
	ErrDuplicateConsumptionIDs = errors.New("duplicated consumption ids are not allowed")

	// ErrCustomerMismatch is returned when batched tabs belong to different customers.
	ErrCustomerMismatch = errors.New("consumptions must belong to the same customer")

	// ErrNotPayable is returned when a draft tab is selected for payment.
	ErrNotPayable = errors.New("consumption is not open for payment")
)

// MissingConsumptionsError reports every id of a batch request that did not
// resolve. It matches ErrConsumptionNotFound under errors.Is.
type MissingConsumptionsError struct {
	IDs []uuid.UUID
}

func (e *MissingConsumptionsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("consumptions not found: %s", strings.Join(ids, ", "))
}

func (e *MissingConsumptionsError) Is(target error) bool {
	return target == ErrConsumptionNotFound
}
