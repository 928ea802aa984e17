package models

import (
	"errors"
	"fmt"
)

// Business-rule errors surfaced to the caller. Anything else that escapes a
// checkout/cancel transaction is wrapped in ErrOrderCreationFailed.
var (
	ErrValidation          = errors.New("invalid input")
	ErrUnauthorized        = errors.New("not allowed")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidTransition   = errors.New("invalid order transition")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrOrderCreationFailed = errors.New("order could not be created")
	ErrReferentialConflict = errors.New("book is referenced by existing orders")
)

// InsufficientStockError names the book that failed the stock check.
type InsufficientStockError struct {
	BookID    uint
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.Title, e.Requested, e.Available)
}
