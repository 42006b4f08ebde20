package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/storetrack/backoffice/internal/domain"
)

// LineItemRepository implements domain.LineItemRepository for PostgreSQL
type LineItemRepository struct {
	db *sqlx.DB
}

// NewLineItemRepository creates a new PostgreSQL line item repository
func NewLineItemRepository(db *sqlx.DB) *LineItemRepository {
	return &LineItemRepository{db: db}
}

// ListSold returns every line item ever recorded, joined with its product
func (r *LineItemRepository) ListSold(ctx context.Context) ([]domain.SoldLineItem, error) {
	query := `
		SELECT si.product_id, p.name AS product_name, si.quantity,
			si.unit_price, p.price AS current_price
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
	`

	var items []domain.SoldLineItem
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &items, query)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// ExistsForProduct reports whether any historical sale item references the product
func (r *LineItemRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM sale_items WHERE product_id = $1)`

	var exists bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &exists, query, productID)
	if err != nil {
		return false, err
	}

	return exists, nil
}
