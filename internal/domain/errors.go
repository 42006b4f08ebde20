package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the base class for missing-entity conditions. Callers
	// that only care about the class can errors.Is against this one.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is the base class for validation and business-rule
	// violations. Operations guarantee no side effects when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists is returned when a unique field collides
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrConflict is returned on optimistic-locking conflicts
	ErrConflict = errors.New("conflict occurred")
)

var (
	ErrProductNotFound = fmt.Errorf("product: %w", ErrNotFound)
	ErrSellerNotFound  = fmt.Errorf("seller: %w", ErrNotFound)
	ErrBuyerNotFound   = fmt.Errorf("buyer: %w", ErrNotFound)
	ErrSaleNotFound    = fmt.Errorf("sale: %w", ErrNotFound)
)

var (
	// ErrInsufficientStock is returned when a reservation asks for more
	// units than the product currently holds
	ErrInsufficientStock = fmt.Errorf("insufficient stock: %w", ErrInvalidInput)

	// ErrPaymentRequired is returned when a cash sale carries no tendered amount
	ErrPaymentRequired = fmt.Errorf("amount tendered is required for cash payments: %w", ErrInvalidInput)

	// ErrInsufficientPayment is returned when the tendered amount does not cover the total
	ErrInsufficientPayment = fmt.Errorf("amount tendered is less than the sale total: %w", ErrInvalidInput)

	// ErrAlreadyCanceled is returned when canceling a sale that is already canceled
	ErrAlreadyCanceled = fmt.Errorf("sale is already canceled: %w", ErrInvalidInput)
)
