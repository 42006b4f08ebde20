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

// BuyerRepository implements domain.BuyerRepository for PostgreSQL
type BuyerRepository struct {
	db *sqlx.DB
}

// NewBuyerRepository creates a new PostgreSQL buyer repository
func NewBuyerRepository(db *sqlx.DB) *BuyerRepository {
	return &BuyerRepository{db: db}
}

// Create persists a new buyer
func (r *BuyerRepository) Create(ctx context.Context, buyer *domain.Buyer) error {
	query := `
		INSERT INTO buyers (name, tax_id, email, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := executor(ctx, r.db).QueryRowxContext(
		ctx,
		query,
		buyer.Name,
		buyer.TaxID,
		buyer.Email,
		time.Now(),
	).Scan(&buyer.ID, &buyer.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a buyer by ID
func (r *BuyerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Buyer, error) {
	query := `
		SELECT id, name, tax_id, email, created_at
		FROM buyers
		WHERE id = $1
	`

	var buyer domain.Buyer
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &buyer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBuyerNotFound
		}
		return nil, err
	}

	return &buyer, nil
}
