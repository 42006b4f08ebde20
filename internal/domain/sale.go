package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod enumerates the accepted payment methods
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentPix        PaymentMethod = "PIX"
)

// Valid reports whether the method is one of the known values
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix:
		return true
	}
	return false
}

// Sale is the unit of atomicity: either all of its effects (stock
// decrements, persistence) happen or none do. Active is the state flag:
// true = ACTIVE, false = CANCELED (terminal).
type Sale struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	OccurredAt    time.Time     `json:"occurred_at" db:"occurred_at"`
	Total         float64       `json:"total" db:"total"`
	Active        bool          `json:"active" db:"active"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	AmountPaid    float64       `json:"amount_paid" db:"amount_paid"`
	Change        float64       `json:"change" db:"change"`
	ItemsReturned bool          `json:"items_returned" db:"items_returned"`
	SellerID      uuid.UUID     `json:"seller_id" db:"seller_id"`
	BuyerID       *uuid.UUID    `json:"buyer_id,omitempty" db:"buyer_id"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
	Items         []SaleItem    `json:"items"`
}

// SaleItem is a line item owned by exactly one sale. UnitPrice is the price
// snapshot captured at reservation time; it is nil only on legacy rows that
// predate snapshotting, in which case readers fall back to the live product
// price.
type SaleItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SaleID    uuid.UUID `json:"sale_id" db:"sale_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice *float64  `json:"unit_price,omitempty" db:"unit_price"`
	Position  int       `json:"position" db:"position"`
}

// SaleItemInput is one requested line of a sale. UnitPrice overrides the
// reservation-time snapshot when supplied.
type SaleItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice *float64  `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
}

// BuyerRef resolves the buyer of a sale: by id, inline-created, or absent
// (both fields nil).
type BuyerRef struct {
	ID  *uuid.UUID `json:"id,omitempty"`
	New *Buyer     `json:"new,omitempty"`
}

// CreateSaleInput carries everything needed to register a sale
type CreateSaleInput struct {
	SellerID      uuid.UUID       `json:"seller_id" validate:"required"`
	Buyer         *BuyerRef       `json:"buyer,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method" validate:"required"`
	AmountPaid    *float64        `json:"amount_paid,omitempty"`
	OccurredAt    *time.Time      `json:"occurred_at,omitempty"`
	Items         []SaleItemInput `json:"items" validate:"required,min=1,dive"`
}

// BuyerPatch distinguishes "leave the buyer alone" (nil patch) from
// "clear the buyer" (Clear) from "re-point or inline-create" (ID / New).
type BuyerPatch struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	New   *Buyer     `json:"new,omitempty"`
	Clear bool       `json:"clear,omitempty"`
}

// SalePatch is a field-presence-aware update: a nil pointer means the caller
// did not mention the field. Items nil means the item set is untouched; a
// non-empty slice replaces it wholesale.
type SalePatch struct {
	OccurredAt    *time.Time      `json:"occurred_at,omitempty"`
	Active        *bool           `json:"active,omitempty"`
	ItemsReturned *bool           `json:"items_returned,omitempty"`
	SellerID      *uuid.UUID      `json:"seller_id,omitempty"`
	Buyer         *BuyerPatch     `json:"buyer,omitempty"`
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty"`
	AmountPaid    *float64        `json:"amount_paid,omitempty"`
	Items         []SaleItemInput `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	// Create persists the sale and its items
	Create(ctx context.Context, sale *Sale) error

	// GetByID retrieves a sale with its items ordered by position
	GetByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// Update persists header fields and, when sale.Items is non-nil,
	// replaces the stored item set
	Update(ctx context.Context, sale *Sale) error

	// List retrieves a paginated list of sales, newest first
	List(ctx context.Context, limit, offset int) ([]*Sale, error)

	// Count returns the total number of sales
	Count(ctx context.Context) (int, error)
}

// TxRunner executes fn within a single database transaction. Repository and
// InventoryStore calls made with the context passed to fn share that
// transaction; fn returning an error rolls everything back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
