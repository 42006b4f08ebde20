package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/storetrack/backoffice/internal/domain"
	"github.com/storetrack/backoffice/internal/pkg/logger"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

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

func newTestService() (*Service, *MockProductRepository, *MockLineItemRepository) {
	mockRepo := new(MockProductRepository)
	mockHistory := new(MockLineItemRepository)
	log := logger.New("test")
	return NewService(mockRepo, mockHistory, log), mockRepo, mockHistory
}

func TestCreate_Success(t *testing.T) {
	service, mockRepo, _ := newTestService()

	product := &domain.Product{Name: "Widget", Price: 9.9, Quantity: 12}
	mockRepo.On("Create", mock.Anything, product).Return(nil)

	err := service.Create(context.Background(), product)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCreate_MissingName(t *testing.T) {
	service, mockRepo, _ := newTestService()

	err := service.Create(context.Background(), &domain.Product{Price: 9.9})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreate_NonPositivePrice(t *testing.T) {
	service, mockRepo, _ := newTestService()

	err := service.Create(context.Background(), &domain.Product{Name: "Widget", Price: 0})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreate_NegativeQuantity(t *testing.T) {
	service, mockRepo, _ := newTestService()

	err := service.Create(context.Background(), &domain.Product{Name: "Widget", Price: 9.9, Quantity: -1})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestGetByID_NotFound(t *testing.T) {
	service, mockRepo, _ := newTestService()

	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrProductNotFound)

	product, err := service.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Nil(t, product)
}

func TestList_ClampsPagination(t *testing.T) {
	service, mockRepo, _ := newTestService()

	mockRepo.On("List", mock.Anything, 20, 0).Return([]*domain.Product{}, nil)
	mockRepo.On("Count", mock.Anything).Return(0, nil)

	_, total, err := service.List(context.Background(), 500, -3)

	assert.NoError(t, err)
	assert.Equal(t, 0, total)
	mockRepo.AssertExpectations(t)
}

func TestUpdate_Success(t *testing.T) {
	service, mockRepo, _ := newTestService()

	product := &domain.Product{ID: uuid.New(), Name: "Widget", Price: 11.0, Quantity: 8, Active: true}
	mockRepo.On("Update", mock.Anything, product).Return(nil)

	err := service.Update(context.Background(), product)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDelete_UnreferencedProductIsRemoved(t *testing.T) {
	service, mockRepo, mockHistory := newTestService()

	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(&domain.Product{ID: id, Name: "Widget", Price: 1}, nil)
	mockHistory.On("ExistsForProduct", mock.Anything, id).Return(false, nil)
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	err := service.Delete(context.Background(), id)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Deactivate")
	mockRepo.AssertExpectations(t)
}

func TestDelete_ReferencedProductIsDeactivated(t *testing.T) {
	service, mockRepo, mockHistory := newTestService()

	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(&domain.Product{ID: id, Name: "Widget", Price: 1}, nil)
	mockHistory.On("ExistsForProduct", mock.Anything, id).Return(true, nil)
	mockRepo.On("Deactivate", mock.Anything, id).Return(nil)

	err := service.Delete(context.Background(), id)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Delete")
	mockRepo.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	service, mockRepo, mockHistory := newTestService()

	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrProductNotFound)

	err := service.Delete(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	mockHistory.AssertNotCalled(t, "ExistsForProduct")
	mockRepo.AssertNotCalled(t, "Delete")
	mockRepo.AssertNotCalled(t, "Deactivate")
}
