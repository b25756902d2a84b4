package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// ShippingInfo carries the delivery fields captured at checkout.
type ShippingInfo struct {
	FullName   string
	Phone      string
	Address    string
	City       string
	PostalCode string
}

// OrderService converts carts (or single products) into immutable orders.
type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, shipping ShippingInfo) (*model.Order, error)
	BuyNow(ctx context.Context, userID uuid.UUID, productID uint, quantity int, shipping ShippingInfo) (*model.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.Order, int64, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Checkout snapshots the cart into an order, decrements stock and clears the
// cart as one transaction. The stock decrement is conditional at the
// database, so a concurrent checkout that drains a product rolls this one
// back with InsufficientStock instead of overselling.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, shipping ShippingInfo) (*model.Order, error) {
	cart, err := s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	// Pre-validate so the common case fails before opening a transaction.
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Quantity > item.Product.Quantity {
			return nil, &apperrors.InsufficientStockError{
				ProductName: item.Product.Name,
				Available:   item.Product.Quantity,
			}
		}
	}

	order := &model.Order{
		UserID:      &userID,
		Status:      model.OrderStatusPending,
		TotalAmount: cart.TotalPrice(),
		FullName:    shipping.FullName,
		Phone:       shipping.Phone,
		Address:     shipping.Address,
		City:        shipping.City,
		PostalCode:  shipping.PostalCode,
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		productID := item.ProductID
		order.Items = append(order.Items, model.OrderItem{
			ProductID:   &productID,
			ProductName: item.Product.Name,
			ProductSKU:  item.Product.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.DiscountedPrice(),
		})
	}

	err = s.orderRepo.WithTransaction(ctx, func(ctx context.Context, tx repository.CheckoutTx) error {
		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i := range cart.Items {
			item := &cart.Items[i]
			if err := tx.Products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, apperrors.ErrStockConflict) {
					return &apperrors.InsufficientStockError{
						ProductName: item.Product.Name,
						Available:   item.Product.Quantity,
					}
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
		}
		return tx.Carts.Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// BuyNow creates a single-line order directly, skipping the cart.
func (s *orderService) BuyNow(ctx context.Context, userID uuid.UUID, productID uint, quantity int, shipping ShippingInfo) (*model.Order, error) {
	if quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if !product.InStock() {
		return nil, apperrors.ErrOutOfStock
	}
	if quantity > product.Quantity {
		return nil, &apperrors.InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Quantity,
		}
	}

	unitPrice := product.DiscountedPrice()
	order := &model.Order{
		UserID:      &userID,
		Status:      model.OrderStatusPending,
		TotalAmount: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		FullName:    shipping.FullName,
		Phone:       shipping.Phone,
		Address:     shipping.Address,
		City:        shipping.City,
		PostalCode:  shipping.PostalCode,
		Items: []model.OrderItem{{
			ProductID:   &product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
		}},
	}

	err = s.orderRepo.WithTransaction(ctx, func(ctx context.Context, tx repository.CheckoutTx) error {
		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := tx.Products.DecrementStock(ctx, product.ID, quantity); err != nil {
			if errors.Is(err, apperrors.ErrStockConflict) {
				return &apperrors.InsufficientStockError{
					ProductName: product.Name,
					Available:   product.Quantity,
				}
			}
			return fmt.Errorf("decrement stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return s.orderRepo.ListByUser(ctx, userID, page, pageSize)
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}
