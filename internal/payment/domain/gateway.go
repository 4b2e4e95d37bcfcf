// Package domain holds the payment context's gateway port.
package domain

import (
	"context"

	shared "github.com/comanda-app/comanda/internal/shared/domain"
)

// Payer identifies who a Pix charge is billed to.
type Payer struct {
	FullName string
	TaxID    shared.TaxID
}

// Charge is a request for one scannable Pix code. Amount is in cents.
type Charge struct {
	ReferenceID string
	Amount      int64
	Description string
	Payer       Payer
}

// PixCode is the provider's answer to a charge: an identifier to reconcile
// the eventual payment callback, and the copy-paste EMV code.
type PixCode struct {
	PaymentID string
	Code      string
}

// Gateway requests Pix codes from the payment provider. Failures propagate
// untouched; retry policy belongs to the caller.
type Gateway interface {
	GenerateCode(ctx context.Context, charge Charge) (PixCode, error)
}
