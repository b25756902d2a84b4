package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// CartService handles the per-user cart.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	// AddItem adds a product line or replaces the quantity of an existing
	// one. The returned bool reports whether a new line was created.
	AddItem(ctx context.Context, userID uuid.UUID, productID uint, quantity int) (*model.Cart, bool, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID uint) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, productID uint, quantity int) (*model.Cart, bool, error) {
	if quantity < 1 {
		return nil, false, apperrors.ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, apperrors.ErrProductNotFound
		}
		return nil, false, fmt.Errorf("find product: %w", err)
	}
	if !product.InStock() {
		return nil, false, apperrors.ErrOutOfStock
	}
	if quantity > product.Quantity {
		return nil, false, &apperrors.InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Quantity,
		}
	}

	cart, err := s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("load cart: %w", err)
	}

	created := false
	item, err := s.cartRepo.FindItemByProduct(ctx, cart.ID, product.ID)
	switch {
	case err == nil:
		item.Quantity = quantity // replace, not increment
		if err := s.cartRepo.SaveItem(ctx, item); err != nil {
			return nil, false, fmt.Errorf("save cart item: %w", err)
		}
	case err == gorm.ErrRecordNotFound:
		created = true
		item = &model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: quantity}
		if err := s.cartRepo.CreateItem(ctx, item); err != nil {
			return nil, false, fmt.Errorf("create cart item: %w", err)
		}
	default:
		return nil, false, fmt.Errorf("find cart item: %w", err)
	}

	cart, err = s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("reload cart: %w", err)
	}
	return cart, created, nil
}

func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}

	item, err := s.cartRepo.FindItem(ctx, itemID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	if quantity > item.Product.Quantity {
		return nil, &apperrors.InsufficientStockError{
			ProductName: item.Product.Name,
			Available:   item.Product.Quantity,
		}
	}

	item.Quantity = quantity
	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("save cart item: %w", err)
	}
	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID uint) error {
	item, err := s.cartRepo.FindItem(ctx, itemID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrCartItemNotFound
		}
		return fmt.Errorf("find cart item: %w", err)
	}
	return s.cartRepo.DeleteItem(ctx, item.ID)
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	return s.cartRepo.Clear(ctx, cart.ID)
}
