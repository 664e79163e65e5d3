package entity

import (
	"errors"
	"fmt"
)

// Error classes. Callers wrap one of these with fmt.Errorf("%w: ...") and the
// HTTP layer maps them to status codes with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrAuth        = errors.New("unauthorized")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence error")
	ErrGateway     = errors.New("payment gateway error")
)

var (
	ErrEmptyCart          = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrInvalidMethod      = fmt.Errorf("%w: payment_method must be pix or boleto", ErrValidation)
	ErrOrderNotFound      = fmt.Errorf("%w: order", ErrNotFound)
	ErrPaymentNotFound    = fmt.Errorf("%w: order has no payment", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("%w: product", ErrNotFound)
	ErrCategoryNotFound   = fmt.Errorf("%w: category", ErrNotFound)
	ErrCustomerNotFound   = fmt.Errorf("%w: customer", ErrNotFound)
	ErrCheckoutInProgress = fmt.Errorf("%w: checkout already in progress for this session", ErrConflict)
)

// Validationf builds an ErrValidation with a formatted detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Persistence wraps a datastore failure, keeping the original error in the chain.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// Gateway wraps a payment adapter failure.
func Gateway(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrGateway, op, err)
}
