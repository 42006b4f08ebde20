package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/storetrack/backoffice/internal/domain"
)

// SaleRepository implements domain.SaleRepository for PostgreSQL
type SaleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository creates a new PostgreSQL sale repository
func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create persists the sale header and its items
func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (occurred_at, total, active, payment_method, amount_paid,
			change, items_returned, seller_id, buyer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()

	err := executor(ctx, r.db).QueryRowxContext(
		ctx,
		query,
		sale.OccurredAt,
		sale.Total,
		sale.Active,
		sale.PaymentMethod,
		sale.AmountPaid,
		sale.Change,
		sale.ItemsReturned,
		sale.SellerID,
		sale.BuyerID,
		now,
		now,
	).Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)

	if err != nil {
		return err
	}

	return r.insertItems(ctx, sale)
}

// GetByID retrieves a sale with its items ordered by position
func (r *SaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `
		SELECT id, occurred_at, total, active, payment_method, amount_paid,
			change, items_returned, seller_id, buyer_id, created_at, updated_at
		FROM sales
		WHERE id = $1
	`

	var sale domain.Sale
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &sale, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, []uuid.UUID{sale.ID})
	if err != nil {
		return nil, err
	}
	sale.Items = items[sale.ID]

	return &sale, nil
}

// Update persists header fields and, when sale.Items is non-nil, replaces
// the stored item set
func (r *SaleRepository) Update(ctx context.Context, sale *domain.Sale) error {
	query := `
		UPDATE sales
		SET occurred_at = $1, total = $2, active = $3, payment_method = $4,
			amount_paid = $5, change = $6, items_returned = $7, seller_id = $8,
			buyer_id = $9, updated_at = $10
		WHERE id = $11
		RETURNING updated_at
	`

	sale.UpdatedAt = time.Now()

	err := executor(ctx, r.db).QueryRowxContext(
		ctx,
		query,
		sale.OccurredAt,
		sale.Total,
		sale.Active,
		sale.PaymentMethod,
		sale.AmountPaid,
		sale.Change,
		sale.ItemsReturned,
		sale.SellerID,
		sale.BuyerID,
		sale.UpdatedAt,
		sale.ID,
	).Scan(&sale.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrSaleNotFound
		}
		return err
	}

	if sale.Items == nil {
		return nil
	}

	deleteQuery := `DELETE FROM sale_items WHERE sale_id = $1`
	if _, err := executor(ctx, r.db).ExecContext(ctx, deleteQuery, sale.ID); err != nil {
		return err
	}

	return r.insertItems(ctx, sale)
}

// List retrieves a paginated list of sales, newest first
func (r *SaleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Sale, error) {
	query := `
		SELECT id, occurred_at, total, active, payment_method, amount_paid,
			change, items_returned, seller_id, buyer_id, created_at, updated_at
		FROM sales
		ORDER BY occurred_at DESC
		LIMIT $1 OFFSET $2
	`

	var sales []*domain.Sale
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &sales, query, limit, offset)
	if err != nil {
		return nil, err
	}

	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]uuid.UUID, 0, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		s.Items = items[s.ID]
	}

	return sales, nil
}

// Count returns the total number of sales
func (r *SaleRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM sales`

	var count int
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *SaleRepository) insertItems(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for i := range sale.Items {
		item := &sale.Items[i]
		item.SaleID = sale.ID
		item.Position = i

		err := executor(ctx, r.db).QueryRowxContext(
			ctx,
			query,
			item.SaleID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.Position,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *SaleRepository) loadItems(ctx context.Context, saleIDs []uuid.UUID) (map[uuid.UUID][]domain.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, position
		FROM sale_items
		WHERE sale_id = ANY($1)
		ORDER BY sale_id, position
	`

	ids := make([]string, 0, len(saleIDs))
	for _, id := range saleIDs {
		ids = append(ids, id.String())
	}

	var items []domain.SaleItem
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &items, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]domain.SaleItem, len(saleIDs))
	for _, item := range items {
		grouped[item.SaleID] = append(grouped[item.SaleID], item)
	}

	return grouped, nil
}
