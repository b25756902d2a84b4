package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/model"
)

// CheckoutTx bundles the tx-scoped repositories checkout mutates as one unit:
// order creation, stock decrement and cart clearing commit or roll back
// together.
type CheckoutTx struct {
	Orders   OrderRepository
	Products ProductRepository
	Carts    CartRepository
}

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByOrderID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.Order, int64, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx CheckoutTx) error) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository builds a GORM-backed repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order together with its item snapshots.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) FindByOrderID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	if err := q.
		Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

// WithTransaction executes fn against tx-scoped repositories in one database
// transaction.
func (r *orderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx CheckoutTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(ctx, CheckoutTx{
			Orders:   NewOrderRepository(txdb),
			Products: NewProductRepository(txdb),
			Carts:    NewCartRepository(txdb),
		})
	})
}
