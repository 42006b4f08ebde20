package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/storetrack/backoffice/internal/domain"
)

// SellerRepository implements domain.SellerRepository for PostgreSQL
type SellerRepository struct {
	db *sqlx.DB
}

// NewSellerRepository creates a new PostgreSQL seller repository
func NewSellerRepository(db *sqlx.DB) *SellerRepository {
	return &SellerRepository{db: db}
}

// GetByID retrieves a seller by ID
func (r *SellerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Seller, error) {
	query := `
		SELECT id, name, username, active, created_at
		FROM sellers
		WHERE id = $1
	`

	var seller domain.Seller
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &seller, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSellerNotFound
		}
		return nil, err
	}

	return &seller, nil
}
