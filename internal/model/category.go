package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductCategory groups products for browsing.
type ProductCategory struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Title  string `json:"title" gorm:"uniqueIndex;size:100;not null"`
	Slug   string `json:"slug" gorm:"uniqueIndex;size:110;not null"`
	Image  string `json:"image,omitempty" gorm:"size:255"`
	Active bool   `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Products []Product `json:"-" gorm:"foreignKey:CategoryID"`
}

// BeforeSave derives the slug from the title when none is set.
func (c *ProductCategory) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Title)
	}
	return nil
}
