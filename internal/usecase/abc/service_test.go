package abc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/storetrack/backoffice/internal/domain"
	"github.com/storetrack/backoffice/internal/pkg/logger"
)

// MockLineItemRepository is a mock implementation of domain.LineItemRepository
type MockLineItemRepository struct {
	mock.Mock
}

func (m *MockLineItemRepository) ListSold(ctx context.Context) ([]domain.SoldLineItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SoldLineItem), args.Error(1)
}

func (m *MockLineItemRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

// MockClassificationCache is a mock implementation of ClassificationCache
type MockClassificationCache struct {
	mock.Mock
}

func (m *MockClassificationCache) GetClassification(ctx context.Context) ([]domain.Classification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Classification), args.Error(1)
}

func (m *MockClassificationCache) SetClassification(ctx context.Context, list []domain.Classification) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func floatPtr(v float64) *float64 {
	return &v
}

func soldItem(productID uuid.UUID, name string, qty int, unitPrice *float64, currentPrice float64) domain.SoldLineItem {
	return domain.SoldLineItem{
		ProductID:    productID,
		ProductName:  name,
		Quantity:     qty,
		UnitPrice:    unitPrice,
		CurrentPrice: currentPrice,
	}
}

func TestCompute_ThreeTierScenario(t *testing.T) {
	// Revenues 800, 150, 50 over a total of 1000 must land in A, B, C
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()

	sold := []domain.SoldLineItem{
		soldItem(p1, "alpha", 8, floatPtr(100.0), 100.0),
		soldItem(p2, "bravo", 3, floatPtr(50.0), 50.0),
		soldItem(p3, "charlie", 1, floatPtr(50.0), 50.0),
	}

	list := Compute(sold)

	assert.Len(t, list, 3)

	assert.Equal(t, p1, list[0].ProductID)
	assert.Equal(t, 800.0, list[0].Revenue)
	assert.InDelta(t, 80.0, list[0].PctOfTotal, 1e-9)
	assert.InDelta(t, 80.0, list[0].CumulativePct, 1e-9)
	assert.Equal(t, domain.TierA, list[0].Tier)

	assert.Equal(t, p2, list[1].ProductID)
	assert.Equal(t, 150.0, list[1].Revenue)
	assert.InDelta(t, 15.0, list[1].PctOfTotal, 1e-9)
	assert.InDelta(t, 95.0, list[1].CumulativePct, 1e-9)
	assert.Equal(t, domain.TierB, list[1].Tier)

	assert.Equal(t, p3, list[2].ProductID)
	assert.Equal(t, 50.0, list[2].Revenue)
	assert.InDelta(t, 5.0, list[2].PctOfTotal, 1e-9)
	assert.InDelta(t, 100.0, list[2].CumulativePct, 1e-9)
	assert.Equal(t, domain.TierC, list[2].Tier)
}

func TestCompute_LastCumulativeIsHundred(t *testing.T) {
	sold := []domain.SoldLineItem{
		soldItem(uuid.New(), "a", 2, floatPtr(13.37), 13.37),
		soldItem(uuid.New(), "b", 5, floatPtr(7.77), 7.77),
		soldItem(uuid.New(), "c", 1, floatPtr(99.99), 99.99),
	}

	list := Compute(sold)

	assert.Len(t, list, 3)
	assert.InDelta(t, 100.0, list[len(list)-1].CumulativePct, 1e-9)
}

func TestCompute_EmptyInput(t *testing.T) {
	list := Compute(nil)

	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCompute_ZeroRevenue(t *testing.T) {
	// Zero-priced history must not divide by zero
	sold := []domain.SoldLineItem{
		soldItem(uuid.New(), "freebie", 10, floatPtr(0.0), 0.0),
	}

	list := Compute(sold)

	assert.Empty(t, list)
}

func TestCompute_GroupsByProduct(t *testing.T) {
	p := uuid.New()

	sold := []domain.SoldLineItem{
		soldItem(p, "alpha", 2, floatPtr(10.0), 10.0),
		soldItem(p, "alpha", 3, floatPtr(10.0), 10.0),
	}

	list := Compute(sold)

	assert.Len(t, list, 1)
	assert.Equal(t, 50.0, list[0].Revenue)
	assert.Equal(t, domain.TierC, list[0].Tier)
	assert.InDelta(t, 100.0, list[0].CumulativePct, 1e-9)
}

func TestCompute_FallsBackToCurrentPrice(t *testing.T) {
	// Legacy rows without a snapshot price use the live product price
	p := uuid.New()

	sold := []domain.SoldLineItem{
		soldItem(p, "legacy", 4, nil, 25.0),
	}

	list := Compute(sold)

	assert.Len(t, list, 1)
	assert.Equal(t, 100.0, list[0].Revenue)
}

func TestCompute_TiesBrokenByProductID(t *testing.T) {
	p1 := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	p2 := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	sold := []domain.SoldLineItem{
		soldItem(p2, "later", 1, floatPtr(50.0), 50.0),
		soldItem(p1, "earlier", 1, floatPtr(50.0), 50.0),
	}

	list := Compute(sold)

	assert.Len(t, list, 2)
	assert.Equal(t, p1, list[0].ProductID)
	assert.Equal(t, p2, list[1].ProductID)
}

func TestCompute_SingleProductIsTierC(t *testing.T) {
	// One product carries 100% of revenue, past both boundaries
	sold := []domain.SoldLineItem{
		soldItem(uuid.New(), "only", 1, floatPtr(10.0), 10.0),
	}

	list := Compute(sold)

	assert.Len(t, list, 1)
	assert.Equal(t, domain.TierC, list[0].Tier)
}

func TestService_Classify_CacheHit(t *testing.T) {
	mockRepo := new(MockLineItemRepository)
	mockCache := new(MockClassificationCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, log)

	cached := []domain.Classification{
		{ProductID: uuid.New(), Name: "hot", Revenue: 100, PctOfTotal: 100, CumulativePct: 100, Tier: domain.TierC},
	}

	mockCache.On("GetClassification", mock.Anything).Return(cached, nil)

	list, err := service.Classify(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, cached, list)
	mockRepo.AssertNotCalled(t, "ListSold")
	mockCache.AssertExpectations(t)
}

func TestService_Classify_CacheMiss(t *testing.T) {
	mockRepo := new(MockLineItemRepository)
	mockCache := new(MockClassificationCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, log)

	p := uuid.New()
	sold := []domain.SoldLineItem{
		soldItem(p, "alpha", 2, floatPtr(10.0), 10.0),
	}

	mockCache.On("GetClassification", mock.Anything).Return(nil, domain.ErrNotFound)
	mockRepo.On("ListSold", mock.Anything).Return(sold, nil)
	mockCache.On("SetClassification", mock.Anything, mock.Anything).Return(nil)

	list, err := service.Classify(context.Background())

	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, p, list[0].ProductID)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_Classify_CacheWriteFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockLineItemRepository)
	mockCache := new(MockClassificationCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, log)

	mockCache.On("GetClassification", mock.Anything).Return(nil, domain.ErrNotFound)
	mockRepo.On("ListSold", mock.Anything).Return([]domain.SoldLineItem{
		soldItem(uuid.New(), "alpha", 1, floatPtr(5.0), 5.0),
	}, nil)
	mockCache.On("SetClassification", mock.Anything, mock.Anything).Return(assert.AnError)

	list, err := service.Classify(context.Background())

	assert.NoError(t, err, "Classification should succeed even when cache fails")
	assert.Len(t, list, 1)
}
