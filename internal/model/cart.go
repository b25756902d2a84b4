package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the per-user mutable collection of product lines. The unique index
// on UserID enforces one cart per user.
type Cart struct {
	ID     uint      `json:"id" gorm:"primaryKey"`
	UserID uuid.UUID `json:"-" gorm:"type:char(36);uniqueIndex;not null"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	Items []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TotalItems is the summed quantity across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the summed subtotal across all lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal())
	}
	return total
}

// CartItem is a (cart, product) line; the pair is unique and quantity is
// at least 1.
type CartItem struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CartID    uint `json:"-" gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID uint `json:"-" gorm:"not null;uniqueIndex:idx_cart_product"`
	Quantity  int  `json:"quantity" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	Product Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Subtotal is the product's discounted price times the line quantity.
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.Product.DiscountedPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}
