package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Buyer represents an optional sale counterpart
type Buyer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	TaxID     string    `json:"tax_id" db:"tax_id" validate:"required,min=1,max=32"`
	Email     string    `json:"email" db:"email" validate:"required,email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BuyerRepository defines the interface for buyer data access
type BuyerRepository interface {
	// Create persists a new buyer; ErrAlreadyExists on tax id or email collision
	Create(ctx context.Context, buyer *Buyer) error

	// GetByID retrieves a buyer by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Buyer, error)
}
