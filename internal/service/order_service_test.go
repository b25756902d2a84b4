package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// MockOrderRepository is a mock implementation of OrderRepository. Tx holds
// the repositories handed to WithTransaction callbacks, so inner expectations
// and errors flow through like a real transaction.
type MockOrderRepository struct {
	mock.Mock
	Tx repository.CheckoutTx
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByOrderID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.CheckoutTx) error) error {
	return fn(ctx, m.Tx)
}

func testShipping() ShippingInfo {
	return ShippingInfo{
		FullName:   "Test User",
		Phone:      "+100000000",
		Address:    "1 Test Street",
		City:       "Testville",
		PostalCode: "12345",
	}
}

func TestOrderService_Checkout(t *testing.T) {
	userID := uuid.New()

	t.Run("rejects an empty cart", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		cartRepo.On("FindOrCreateByUser", mock.Anything, userID).Return(&model.Cart{ID: 7, UserID: userID}, nil)

		service := NewOrderService(new(MockOrderRepository), cartRepo, new(MockProductRepository))
		_, err := service.Checkout(context.Background(), userID, testShipping())
		assert.Equal(t, apperrors.ErrEmptyCart, err)
	})

	t.Run("rejects a line above stock and names the product", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		cartRepo.On("FindOrCreateByUser", mock.Anything, userID).Return(&model.Cart{
			ID:     7,
			UserID: userID,
			Items: []model.CartItem{
				{ID: 1, CartID: 7, ProductID: 1, Quantity: 5, Product: *testProduct(1, "Headphones", "199.99", 2)},
			},
		}, nil)

		service := NewOrderService(new(MockOrderRepository), cartRepo, new(MockProductRepository))
		_, err := service.Checkout(context.Background(), userID, testShipping())

		var stockErr *apperrors.InsufficientStockError
		assert.True(t, errors.As(err, &stockErr))
		assert.Equal(t, "Headphones", stockErr.ProductName)
		assert.Equal(t, 2, stockErr.Available)
	})

	t.Run("snapshots lines, decrements stock and clears the cart", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		txOrders := new(MockOrderRepository)
		txProducts := new(MockProductRepository)
		txCarts := new(MockCartRepository)
		orderRepo := &MockOrderRepository{Tx: repository.CheckoutTx{
			Orders:   txOrders,
			Products: txProducts,
			Carts:    txCarts,
		}}

		headphones := testProduct(1, "Headphones", "100.00", 10)
		headphones.Discount = decimal.RequireFromString("10")
		tshirt := testProduct(2, "T-Shirt", "20.00", 50)

		cartRepo.On("FindOrCreateByUser", mock.Anything, userID).Return(&model.Cart{
			ID:     7,
			UserID: userID,
			Items: []model.CartItem{
				{ID: 1, CartID: 7, ProductID: 1, Quantity: 2, Product: *headphones},
				{ID: 2, CartID: 7, ProductID: 2, Quantity: 3, Product: *tshirt},
			},
		}, nil)
		txOrders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
		txProducts.On("DecrementStock", mock.Anything, uint(1), 2).Return(nil)
		txProducts.On("DecrementStock", mock.Anything, uint(2), 3).Return(nil)
		txCarts.On("Clear", mock.Anything, uint(7)).Return(nil)

		service := NewOrderService(orderRepo, cartRepo, new(MockProductRepository))
		order, err := service.Checkout(context.Background(), userID, testShipping())

		assert.NoError(t, err)
		assert.Equal(t, model.OrderStatusPending, order.Status)
		// 2 x 90.00 (10% off) + 3 x 20.00
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("240.00")),
			"total = %s", order.TotalAmount)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, "Headphones", order.Items[0].ProductName)
		assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("90.00")))
		txOrders.AssertExpectations(t)
		txProducts.AssertExpectations(t)
		txCarts.AssertExpectations(t)
	})

	t.Run("a conditional decrement losing the race surfaces as insufficient stock", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		txOrders := new(MockOrderRepository)
		txProducts := new(MockProductRepository)
		orderRepo := &MockOrderRepository{Tx: repository.CheckoutTx{
			Orders:   txOrders,
			Products: txProducts,
			Carts:    new(MockCartRepository),
		}}

		cartRepo.On("FindOrCreateByUser", mock.Anything, userID).Return(&model.Cart{
			ID:     7,
			UserID: userID,
			Items: []model.CartItem{
				{ID: 1, CartID: 7, ProductID: 1, Quantity: 2, Product: *testProduct(1, "Headphones", "199.99", 2)},
			},
		}, nil)
		txOrders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
		// Another checkout drained the stock between the pre-check and the update.
		txProducts.On("DecrementStock", mock.Anything, uint(1), 2).Return(apperrors.ErrStockConflict)

		service := NewOrderService(orderRepo, cartRepo, new(MockProductRepository))
		_, err := service.Checkout(context.Background(), userID, testShipping())

		var stockErr *apperrors.InsufficientStockError
		assert.True(t, errors.As(err, &stockErr))
		assert.Equal(t, "Headphones", stockErr.ProductName)
	})
}

func TestOrderService_BuyNow(t *testing.T) {
	userID := uuid.New()

	t.Run("rejects quantity below one", func(t *testing.T) {
		service := NewOrderService(new(MockOrderRepository), new(MockCartRepository), new(MockProductRepository))
		_, err := service.BuyNow(context.Background(), userID, 1, 0, testShipping())
		assert.Equal(t, apperrors.ErrInvalidQuantity, err)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		productRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := NewOrderService(new(MockOrderRepository), new(MockCartRepository), productRepo)
		_, err := service.BuyNow(context.Background(), userID, 99, 1, testShipping())
		assert.Equal(t, apperrors.ErrProductNotFound, err)
	})

	t.Run("sequential orders drain the stock", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		txOrders := new(MockOrderRepository)
		txProducts := new(MockProductRepository)
		orderRepo := &MockOrderRepository{Tx: repository.CheckoutTx{
			Orders:   txOrders,
			Products: txProducts,
			Carts:    new(MockCartRepository),
		}}

		// First order sees 3 on hand and takes 2; the second sees the single
		// remaining unit and is rejected up front.
		productRepo.On("FindByID", mock.Anything, uint(1)).Return(testProduct(1, "Headphones", "199.99", 3), nil).Once()
		productRepo.On("FindByID", mock.Anything, uint(1)).Return(testProduct(1, "Headphones", "199.99", 1), nil).Once()
		txOrders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil).Once()
		txProducts.On("DecrementStock", mock.Anything, uint(1), 2).Return(nil).Once()

		service := NewOrderService(orderRepo, new(MockCartRepository), productRepo)

		order, err := service.BuyNow(context.Background(), userID, 1, 2, testShipping())
		assert.NoError(t, err)
		assert.Len(t, order.Items, 1)
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("399.98")))

		_, err = service.BuyNow(context.Background(), userID, 1, 2, testShipping())
		var stockErr *apperrors.InsufficientStockError
		assert.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 1, stockErr.Available)

		productRepo.AssertExpectations(t)
		txProducts.AssertExpectations(t)
	})
}

func TestOrderService_GetOrder(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("FindByOrderID", mock.Anything, orderID, userID).Return(nil, gorm.ErrRecordNotFound)

	service := NewOrderService(orderRepo, new(MockCartRepository), new(MockProductRepository))
	_, err := service.GetOrder(context.Background(), userID, orderID)
	assert.Equal(t, apperrors.ErrOrderNotFound, err)
}
