package domain

import (
	"errors"
	"strings"
)

// ValueObject represents an immutable domain concept defined by its attributes.
type ValueObject interface {
	Equals(other ValueObject) bool
}

// ErrInvalidTaxID is returned when a tax identifier is malformed.
var ErrInvalidTaxID = errors.New("tax id must have 11 (CPF) or 14 (CNPJ) digits")

// TaxID represents a Brazilian tax identifier (CPF or CNPJ) shared across
// bounded contexts. It is stored as bare digits.
type TaxID struct {
	value string
}

// NewTaxID creates a TaxID from a formatted or unformatted string.
func NewTaxID(value string) (TaxID, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)

	if len(digits) != 11 && len(digits) != 14 {
		return TaxID{}, ErrInvalidTaxID
	}
	return TaxID{value: digits}, nil
}

// String returns the digits of the TaxID.
func (t TaxID) String() string {
	return t.value
}

// Equals checks if two TaxIDs are equal.
func (t TaxID) Equals(other ValueObject) bool {
	if otherTaxID, ok := other.(TaxID); ok {
		return t.value == otherTaxID.value
	}
	return false
}

// IsEmpty returns true if the TaxID is empty.
func (t TaxID) IsEmpty() bool {
	return t.value == ""
}
