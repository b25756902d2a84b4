package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is an immutable snapshot of a purchase at checkout time. The owning
// user is nullable so order history survives user deletion.
type Order struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	OrderID     uuid.UUID       `json:"order_id" gorm:"type:char(36);uniqueIndex;not null"`
	UserID      *uuid.UUID      `json:"-" gorm:"type:char(36);index"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`

	// Shipping info
	FullName   string `json:"full_name" gorm:"size:255;not null"`
	Phone      string `json:"phone" gorm:"size:20;not null"`
	Address    string `json:"address" gorm:"type:text;not null"`
	City       string `json:"city" gorm:"size:100;not null"`
	PostalCode string `json:"postal_code" gorm:"size:20;not null"`

	// Payment fields, populated once the gateway confirms.
	TransactionID string     `json:"transaction_id,omitempty" gorm:"size:100"`
	Paid          bool       `json:"is_paid" gorm:"column:is_paid;default:false"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  *User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Items []OrderItem `json:"items" gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets the public order UUID.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderID == uuid.Nil {
		o.OrderID = uuid.New()
	}
	return nil
}

// OrderItem snapshots product name, SKU and unit price at order time. The
// snapshot never changes even if the source product is edited or deleted.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderRef    uint            `json:"-" gorm:"column:order_ref;index;not null"`
	ProductID   *uint           `json:"product_id,omitempty" gorm:"index"`
	ProductName string          `json:"product_name" gorm:"size:255;not null"`
	ProductSKU  string          `json:"product_sku" gorm:"column:product_sku;size:100;not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	Product *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
}

// Subtotal is the snapshotted unit price times the quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
