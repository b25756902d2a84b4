package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog entry. Price and discount are stored as
// decimals; the selling price is always derived through DiscountedPrice.
type Product struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" gorm:"size:255;not null"`
	Title       string           `json:"title,omitempty" gorm:"size:255"`
	Slug        string           `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	CategoryID  *uint            `json:"category_id,omitempty" gorm:"index"`
	Description string           `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal  `json:"price" gorm:"type:decimal(10,2);not null"`
	Discount    decimal.Decimal  `json:"discount" gorm:"type:decimal(5,2);not null;default:0"`
	SKU         string           `json:"sku" gorm:"column:sku;uniqueIndex;size:100;not null"`
	Quantity    int              `json:"quantity" gorm:"not null;default:0"`
	Ref         string           `json:"ref,omitempty" gorm:"size:100;uniqueIndex"`
	Active      bool             `json:"is_active" gorm:"default:true;index"`
	Featured    bool             `json:"is_featured" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Category       *ProductCategory        `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Images         []ProductMedia          `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AdditionalInfo []AdditionalInformation `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// BeforeSave derives the slug and the ref code.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	sku := p.SKU
	if len(sku) > 8 {
		sku = sku[:8]
	}
	p.Ref = Slugify(p.Name) + "-" + sku
	return nil
}

// DiscountedPrice is the list price reduced by the discount percentage,
// rounded to 2 decimals. Equal to Price when the discount is zero.
func (p *Product) DiscountedPrice() decimal.Decimal {
	if p.Discount.IsPositive() {
		return p.Price.Sub(p.Price.Mul(p.Discount).Div(decimal.NewFromInt(100))).Round(2)
	}
	return p.Price
}

// InStock reports whether any quantity is on hand.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// ProductMedia is an ordered image owned by a product.
type ProductMedia struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"-" gorm:"index;not null"`
	Image     string `json:"image" gorm:"size:255;not null"`
	Primary   bool   `json:"is_primary" gorm:"column:is_primary;default:false"`
	Order     int    `json:"order" gorm:"column:sort_order;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// PrimaryImage picks the image flagged primary, falling back to the first.
func PrimaryImage(images []ProductMedia) string {
	for _, m := range images {
		if m.Primary {
			return m.Image
		}
	}
	if len(images) > 0 {
		return images[0].Image
	}
	return ""
}

// AdditionalInformation is a free-form attribute row owned by a product.
type AdditionalInformation struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	ProductID uint   `json:"-" gorm:"index;not null"`
	Key       string `json:"key" gorm:"column:attr_key;size:100;not null"`
	Value     string `json:"value" gorm:"column:attr_value;size:255;not null"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
