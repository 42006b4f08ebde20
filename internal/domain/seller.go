package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Seller is the account responsible for a sale. Account CRUD and
// authentication live outside this engine; only resolution is needed here.
type Seller struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Username  string    `json:"username" db:"username"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SellerRepository defines the interface for seller resolution
type SellerRepository interface {
	// GetByID retrieves a seller by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Seller, error)
}
