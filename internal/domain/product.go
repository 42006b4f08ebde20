package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog product with its stock on hand
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Price     float64   `json:"price" db:"price" validate:"required,gt=0"`
	Quantity  int       `json:"quantity" db:"quantity" validate:"gte=0"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create creates a new product (active by default)
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID, active or not
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// List retrieves a paginated list of products
	List(ctx context.Context, limit, offset int) ([]*Product, error)

	// Update updates name, price, quantity and active flag
	Update(ctx context.Context, product *Product) error

	// Delete removes the product row entirely
	Delete(ctx context.Context, id uuid.UUID) error

	// Deactivate flips the active flag off, keeping the record
	Deactivate(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of products
	Count(ctx context.Context) (int, error)
}

// InventoryStore is the authoritative holder of stock quantity. Both
// operations persist the product row and honor a transaction bound to the
// context, so a sale's reservations commit or roll back as one unit.
type InventoryStore interface {
	// Reserve atomically decrements stock by qty and returns the unit price
	// at the moment of reservation for snapshotting onto the line item.
	// Fails with ErrProductNotFound when the product is missing or inactive,
	// ErrInsufficientStock when qty exceeds the stock on hand.
	Reserve(ctx context.Context, productID uuid.UUID, qty int) (float64, error)

	// Release atomically increments stock by qty. Used only during
	// cancellation reversal and item-set replacement; no upper bound check.
	Release(ctx context.Context, productID uuid.UUID, qty int) error
}
