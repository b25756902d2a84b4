package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
)

// ProductFilter narrows and orders the catalog listing.
type ProductFilter struct {
	Search       string
	CategorySlug string
	Featured     bool
	InStock      bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Ordering     string
	Page         int
	PageSize     int
}

// orderings is the allow-list of sortable columns; anything else falls back
// to newest-first.
var orderings = map[string]string{
	"price":       "price ASC",
	"-price":      "price DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"name":        "name ASC",
	"-name":       "name DESC",
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Save(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	Related(ctx context.Context, product *model.Product, limit int) ([]model.Product, error)
	Latest(ctx context.Context, limit int) ([]model.Product, error)
	DecrementStock(ctx context.Context, id uint, quantity int) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository builds a GORM-backed repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Save(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// FindByID returns an active product.
func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug returns an active product with its category, media and
// attribute rows preloaded.
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("AdditionalInfo").
		Where("slug = ? AND active = ?", slug, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List applies the filter and returns one page plus the unpaged count.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("products.active = ?", true)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("products.name LIKE ? OR products.title LIKE ? OR products.description LIKE ?", like, like, like)
	}
	if filter.CategorySlug != "" {
		q = q.Joins("JOIN product_categories ON product_categories.id = products.category_id").
			Where("product_categories.slug = ?", filter.CategorySlug)
	}
	if filter.Featured {
		q = q.Where("products.featured = ?", true)
	}
	if filter.InStock {
		q = q.Where("products.quantity > 0")
	}
	if filter.MinPrice != nil {
		q = q.Where("products.price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.price <= ?", filter.MaxPrice)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	order, ok := orderings[filter.Ordering]
	if !ok {
		order = orderings["-created_at"]
	}

	var products []model.Product
	if err := q.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Order("products." + order).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

// Related returns active products sharing the category, excluding the
// product itself, featured-first then newest.
func (r *productRepository) Related(ctx context.Context, product *model.Product, limit int) ([]model.Product, error) {
	if product.CategoryID == nil {
		return nil, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("category_id = ? AND active = ? AND id <> ?", *product.CategoryID, true, product.ID).
		Order("featured DESC, created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Latest(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock subtracts quantity only when the row still holds at least
// that much, so two concurrent checkouts cannot oversell. A zero rows-affected
// result means the stock check failed at the database.
func (r *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrStockConflict
	}
	return nil
}
