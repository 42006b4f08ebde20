package sale

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/storetrack/backoffice/internal/domain"
	"github.com/storetrack/backoffice/internal/pkg/logger"
	pkgvalidator "github.com/storetrack/backoffice/internal/pkg/validator"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ClassificationCache defines the cache invalidation hook the processor
// drives on every sale write
type ClassificationCache interface {
	InvalidateClassification(ctx context.Context) error
}

// SaleEvent represents a lifecycle event of a sale
type SaleEvent struct {
	EventType string       `json:"event_type"`
	Timestamp time.Time    `json:"timestamp"`
	SaleID    uuid.UUID    `json:"sale_id"`
	Sale      *domain.Sale `json:"sale"`
}

// Service orchestrates sale transactions: stock reservation, payment
// settlement, persistence and the cancellation state machine. Every write
// runs as one database transaction, so a mid-loop reservation failure rolls
// back the decrements already applied.
type Service struct {
	sales     domain.SaleRepository
	sellers   domain.SellerRepository
	buyers    domain.BuyerRepository
	inventory domain.InventoryStore
	tx        domain.TxRunner
	cache     ClassificationCache
	publisher EventPublisher
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewService creates a new sale service
func NewService(
	sales domain.SaleRepository,
	sellers domain.SellerRepository,
	buyers domain.BuyerRepository,
	inventory domain.InventoryStore,
	tx domain.TxRunner,
	cache ClassificationCache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		sales:     sales,
		sellers:   sellers,
		buyers:    buyers,
		inventory: inventory,
		tx:        tx,
		cache:     cache,
		publisher: publisher,
		validate:  pkgvalidator.Get(),
		logger:    log,
	}
}

// Create registers a sale: validates the request, resolves seller and buyer,
// reserves stock per item in input order (snapshotting the unit price),
// settles the payment and persists the sale as ACTIVE.
func (s *Service) Create(ctx context.Context, input *domain.CreateSaleInput) (*domain.Sale, error) {
	if err := s.validate.Struct(input); err != nil {
		s.logger.Error("Sale validation failed", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidInput, input.PaymentMethod)
	}

	sale := &domain.Sale{
		Active:        true,
		PaymentMethod: input.PaymentMethod,
		SellerID:      input.SellerID,
	}
	if input.OccurredAt != nil {
		sale.OccurredAt = *input.OccurredAt
	} else {
		sale.OccurredAt = time.Now()
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.sellers.GetByID(ctx, input.SellerID); err != nil {
			return err
		}

		buyerID, err := s.resolveBuyer(ctx, input.Buyer)
		if err != nil {
			return err
		}
		sale.BuyerID = buyerID

		total, items, err := s.reserveItems(ctx, input.Items)
		if err != nil {
			return err
		}
		sale.Items = items
		sale.Total = total

		paid, change, err := Settle(total, input.PaymentMethod, input.AmountPaid)
		if err != nil {
			return err
		}
		sale.AmountPaid = paid
		sale.Change = change

		return s.sales.Create(ctx, sale)
	})
	if err != nil {
		s.logger.Error("Failed to create sale", err)
		return nil, err
	}

	s.invalidateClassification(ctx)
	s.publishEvent("sale.created", sale)

	s.logger.WithFields(map[string]interface{}{
		"sale_id":   sale.ID,
		"seller_id": sale.SellerID,
		"total":     sale.Total,
		"items":     len(sale.Items),
	}).Info("Sale created successfully")

	return sale, nil
}

// Update applies a field-presence-aware patch to a sale. A patch setting
// Active to false is a cancellation and is handled exclusively: the caller
// must state whether items return to stock, and no other patch field is
// applied in the same call. CANCELED is terminal.
func (s *Service) Update(ctx context.Context, saleID uuid.UUID, patch *domain.SalePatch) (*domain.Sale, error) {
	if err := s.validate.Struct(patch); err != nil {
		s.logger.Error("Sale patch validation failed", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var sale *domain.Sale
	var canceled bool

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}

		if !sale.Active {
			if patch.Active != nil && !*patch.Active {
				return domain.ErrAlreadyCanceled
			}
			return fmt.Errorf("%w: sale %s is canceled and cannot be modified", domain.ErrInvalidInput, saleID)
		}

		if patch.Active != nil && !*patch.Active {
			canceled = true
			return s.cancel(ctx, sale, patch)
		}

		return s.applyPatch(ctx, sale, patch)
	})
	if err != nil {
		s.logger.Error("Failed to update sale", err)
		return nil, err
	}

	s.invalidateClassification(ctx)
	if canceled {
		s.publishEvent("sale.canceled", sale)
		s.logger.WithFields(map[string]interface{}{
			"sale_id":        sale.ID,
			"items_returned": sale.ItemsReturned,
		}).Info("Sale canceled")
	} else {
		s.publishEvent("sale.updated", sale)
		s.logger.WithFields(map[string]interface{}{
			"sale_id": sale.ID,
			"total":   sale.Total,
		}).Info("Sale updated successfully")
	}

	return sale, nil
}

// GetByID retrieves a sale by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrSaleNotFound {
			s.logger.Debugf("Sale not found: %s", id)
		} else {
			s.logger.Error("Failed to get sale", err)
		}
		return nil, err
	}

	return sale, nil
}

// List retrieves a paginated list of sales
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Sale, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	sales, err := s.sales.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list sales", err)
		return nil, 0, err
	}

	total, err := s.sales.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count sales", err)
		return nil, 0, err
	}

	return sales, total, nil
}

// cancel drives the ACTIVE -> CANCELED transition. The caller must state
// intent about restocking; ambiguity is rejected.
func (s *Service) cancel(ctx context.Context, sale *domain.Sale, patch *domain.SalePatch) error {
	if patch.ItemsReturned == nil {
		return fmt.Errorf("%w: canceling a sale requires an explicit items_returned flag", domain.ErrInvalidInput)
	}

	if *patch.ItemsReturned {
		for _, item := range sale.Items {
			if err := s.inventory.Release(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	}
	sale.ItemsReturned = *patch.ItemsReturned
	sale.Active = false

	// Cancellation is exclusive: no other patch field is applied
	sale.Items = nil
	return s.sales.Update(ctx, sale)
}

// applyPatch selectively applies the supplied fields of a non-cancellation
// update to an ACTIVE sale.
func (s *Service) applyPatch(ctx context.Context, sale *domain.Sale, patch *domain.SalePatch) error {
	if patch.OccurredAt != nil {
		sale.OccurredAt = *patch.OccurredAt
	}

	if patch.SellerID != nil {
		if _, err := s.sellers.GetByID(ctx, *patch.SellerID); err != nil {
			return err
		}
		sale.SellerID = *patch.SellerID
	}

	if patch.Buyer != nil {
		switch {
		case patch.Buyer.Clear:
			sale.BuyerID = nil
		default:
			buyerID, err := s.resolveBuyer(ctx, &domain.BuyerRef{ID: patch.Buyer.ID, New: patch.Buyer.New})
			if err != nil {
				return err
			}
			sale.BuyerID = buyerID
		}
	}

	if patch.Items != nil {
		// Replacing the item set: the old reservations come back first,
		// then the new set goes through the same reservation loop as
		// Create. The surrounding transaction makes the release+reserve
		// sequence all-or-nothing.
		for _, item := range sale.Items {
			if err := s.inventory.Release(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		total, items, err := s.reserveItems(ctx, patch.Items)
		if err != nil {
			return err
		}
		sale.Items = items
		sale.Total = total
	} else {
		sale.Items = nil
	}

	if patch.PaymentMethod != nil {
		if !patch.PaymentMethod.Valid() {
			return fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidInput, *patch.PaymentMethod)
		}
		paid, change, err := Settle(sale.Total, *patch.PaymentMethod, patch.AmountPaid)
		if err != nil {
			return err
		}
		sale.PaymentMethod = *patch.PaymentMethod
		sale.AmountPaid = paid
		sale.Change = change
	}

	return s.sales.Update(ctx, sale)
}

// reserveItems runs the reservation loop in input order, accumulating the
// total and snapshotting the resolved unit price onto each line.
func (s *Service) reserveItems(ctx context.Context, inputs []domain.SaleItemInput) (float64, []domain.SaleItem, error) {
	var total float64
	items := make([]domain.SaleItem, 0, len(inputs))

	for _, in := range inputs {
		priceAtReservation, err := s.inventory.Reserve(ctx, in.ProductID, in.Quantity)
		if err != nil {
			return 0, nil, err
		}

		unitPrice := resolveUnitPrice(in.UnitPrice, priceAtReservation)
		total += float64(in.Quantity) * unitPrice

		items = append(items, domain.SaleItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: &unitPrice,
		})
	}

	return total, items, nil
}

// resolveUnitPrice is the price resolution rule: a caller-supplied override
// wins, otherwise the product's price at reservation time is snapshotted.
func resolveUnitPrice(override *float64, priceAtReservation float64) float64 {
	if override != nil {
		return *override
	}
	return priceAtReservation
}

// resolveBuyer resolves the buyer reference of a sale: by id, inline-created
// after validation, or absent.
func (s *Service) resolveBuyer(ctx context.Context, ref *domain.BuyerRef) (*uuid.UUID, error) {
	if ref == nil {
		return nil, nil
	}

	if ref.ID != nil {
		buyer, err := s.buyers.GetByID(ctx, *ref.ID)
		if err != nil {
			return nil, err
		}
		return &buyer.ID, nil
	}

	if ref.New != nil {
		if err := s.validate.Struct(ref.New); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if err := s.buyers.Create(ctx, ref.New); err != nil {
			return nil, err
		}
		return &ref.New.ID, nil
	}

	return nil, nil
}

// invalidateClassification drops the cached ABC list; a failure here must
// not fail the sale, the cache self-heals on TTL.
func (s *Service) invalidateClassification(ctx context.Context) {
	if err := s.cache.InvalidateClassification(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate classification cache: %v", err)
	}
}

// publishEvent publishes a sale event (non-blocking)
func (s *Service) publishEvent(eventType string, sale *domain.Sale) {
	event := SaleEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		SaleID:    sale.ID,
		Sale:      sale,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for sale %s", sale.ID)
		return
	}

	// Publish in background to avoid blocking
	go func() {
		if err := s.publisher.Publish(context.Background(), "sales.events", data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for sale %s", sale.ID)
		}
	}()
}
