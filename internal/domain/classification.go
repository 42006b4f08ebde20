package domain

import (
	"context"

	"github.com/google/uuid"
)

// Tier is the revenue-contribution bucket per the 80/95/100
// cumulative-percentage rule
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Classification is one row of the revenue ranking
type Classification struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	Revenue       float64   `json:"revenue"`
	PctOfTotal    float64   `json:"pct_of_total"`
	CumulativePct float64   `json:"cumulative_pct"`
	Tier          Tier      `json:"tier"`
}

// SoldLineItem is the classifier's read model: a historical line item joined
// with the owning product. CurrentPrice backs the fallback rule for rows
// without a price snapshot.
type SoldLineItem struct {
	ProductID    uuid.UUID `db:"product_id"`
	ProductName  string    `db:"product_name"`
	Quantity     int       `db:"quantity"`
	UnitPrice    *float64  `db:"unit_price"`
	CurrentPrice float64   `db:"current_price"`
}

// LineItemRepository defines the read-side access to historical sale items
type LineItemRepository interface {
	// ListSold returns every line item ever recorded, joined with its product
	ListSold(ctx context.Context) ([]SoldLineItem, error)

	// ExistsForProduct reports whether any historical sale item references
	// the product (drives the soft-vs-hard delete rule)
	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}
