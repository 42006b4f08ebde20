// Package abc ranks products by revenue contribution and partitions them
// into A/B/C tiers using the 80/95/100 cumulative-percentage rule.
package abc

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/storetrack/backoffice/internal/domain"
	"github.com/storetrack/backoffice/internal/pkg/logger"
)

// ClassificationCache defines the cache access for classification results
type ClassificationCache interface {
	GetClassification(ctx context.Context) ([]domain.Classification, error)
	SetClassification(ctx context.Context, list []domain.Classification) error
}

// Service computes the revenue classification, read-only and cache-aside
type Service struct {
	items  domain.LineItemRepository
	cache  ClassificationCache
	logger *logger.Logger
}

// NewService creates a new classification service
func NewService(items domain.LineItemRepository, cache ClassificationCache, log *logger.Logger) *Service {
	return &Service{
		items:  items,
		cache:  cache,
		logger: log,
	}
}

// Classify returns the revenue classification, ordered by revenue descending
// (ties broken by product id ascending for determinism). An empty history or
// zero total revenue yields an empty list.
func (s *Service) Classify(ctx context.Context) ([]domain.Classification, error) {
	list, err := s.cache.GetClassification(ctx)
	if err == nil {
		s.logger.Debug("Classification cache hit")
		return list, nil
	}

	sold, err := s.items.ListSold(ctx)
	if err != nil {
		s.logger.Error("Failed to load sold line items", err)
		return nil, err
	}

	list = Compute(sold)

	if err := s.cache.SetClassification(ctx, list); err != nil {
		s.logger.Warnf("Failed to cache classification: %v", err)
	}

	return list, nil
}

// Compute builds the classification from line item history. Revenue per
// product sums quantity times the price snapshot, falling back to the live
// product price on rows without one.
func Compute(sold []domain.SoldLineItem) []domain.Classification {
	type aggregate struct {
		name    string
		revenue float64
	}

	byProduct := make(map[uuid.UUID]*aggregate)
	var totalRevenue float64

	for _, item := range sold {
		price := item.CurrentPrice
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}

		revenue := float64(item.Quantity) * price
		totalRevenue += revenue

		agg, ok := byProduct[item.ProductID]
		if !ok {
			agg = &aggregate{name: item.ProductName}
			byProduct[item.ProductID] = agg
		}
		agg.revenue += revenue
	}

	if totalRevenue == 0 {
		return []domain.Classification{}
	}

	list := make([]domain.Classification, 0, len(byProduct))
	for id, agg := range byProduct {
		list = append(list, domain.Classification{
			ProductID:  id,
			Name:       agg.name,
			Revenue:    agg.revenue,
			PctOfTotal: agg.revenue / totalRevenue * 100,
		})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Revenue != list[j].Revenue {
			return list[i].Revenue > list[j].Revenue
		}
		return list[i].ProductID.String() < list[j].ProductID.String()
	})

	// Tier boundaries are inclusive: exactly 80 is still A, exactly 95 still B
	var cumulative float64
	for i := range list {
		cumulative += list[i].PctOfTotal
		list[i].CumulativePct = cumulative

		switch {
		case cumulative <= 80:
			list[i].Tier = domain.TierA
		case cumulative <= 95:
			list[i].Tier = domain.TierB
		default:
			list[i].Tier = domain.TierC
		}
	}

	return list
}
