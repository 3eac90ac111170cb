package model

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound is returned when a referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound is returned when a referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrCustomerNotFound is returned when a referenced customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvoiceNotFound is returned when no invoice exists for an order.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrOrderNotApproved is returned when an invoice is requested on an
	// order that is not in APPROVED status.
	ErrOrderNotApproved = errors.New("order must be APPROVED to generate invoice")
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// AuthorizationError reports a role that is not permitted to perform the
// requested operation or transition.
type AuthorizationError struct {
	Role   Role
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Role, e.Reason)
}

// InsufficientStockError names the product whose stock could not cover a
// reservation and how much was available.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err wraps an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
