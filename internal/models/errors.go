package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidStatus = errors.New("invalid order status transition")
	ErrEmptyCart     = errors.New("cart is empty")
)

// InsufficientInventoryError names the offending product so callers can
// tell the user which line item to fix and how much stock remains.
type InsufficientInventoryError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientInventoryError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient inventory for %s: available %d, requested %d",
		name, e.Available, e.Requested)
}

// ValidationError wraps ErrValidation with a caller-facing message.
func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
