package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/storetrack/backoffice/internal/domain"
)

// ProductRepository implements domain.ProductRepository and
// domain.InventoryStore for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, price, quantity, active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $5)
		RETURNING id, active, created_at, updated_at
	`

	now := time.Now()

	err := executor(ctx, r.db).QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.Quantity,
		now,
		now,
	).Scan(
		&product.ID,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, price, quantity, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	return &product, nil
}

// List retrieves a paginated list of products
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	query := `
		SELECT id, name, price, quantity, active, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var products []*domain.Product
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &products, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// Update updates an existing product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, price = $2, quantity = $3, active = $4, updated_at = $5
		WHERE id = $6
		RETURNING updated_at
	`

	product.UpdatedAt = time.Now()

	err := executor(ctx, r.db).QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.Quantity,
		product.Active,
		product.UpdatedAt,
		product.ID,
	).Scan(&product.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return err
	}

	return nil
}

// Delete removes the product row entirely
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// Deactivate flips the active flag off, keeping the record
func (r *ProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET active = FALSE, updated_at = $1 WHERE id = $2`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// Count returns the total number of products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM products`

	var count int
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Reserve atomically checks and decrements stock in a single statement; the
// row lock taken by UPDATE is what prevents concurrent oversell, not the
// surrounding transaction. Returns the unit price at reservation time.
func (r *ProductRepository) Reserve(ctx context.Context, productID uuid.UUID, qty int) (float64, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $2, updated_at = $3
		WHERE id = $1 AND active = TRUE AND quantity >= $2
		RETURNING price
	`

	var price float64
	err := executor(ctx, r.db).QueryRowxContext(ctx, query, productID, qty, time.Now()).Scan(&price)
	if err == nil {
		return price, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// No row matched: tell short stock apart from a missing/inactive product
	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1 AND active = TRUE)`
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &exists, checkQuery, productID); err != nil {
		return 0, err
	}

	if exists {
		return 0, domain.ErrInsufficientStock
	}
	return 0, domain.ErrProductNotFound
}

// Release atomically increments stock. Intentionally no upper bound: a
// double release is a caller bug, not something the store can detect.
func (r *ProductRepository) Release(ctx context.Context, productID uuid.UUID, qty int) error {
	query := `
		UPDATE products
		SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1
	`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, productID, qty, time.Now())
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}
