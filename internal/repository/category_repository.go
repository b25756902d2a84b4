package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.ProductCategory) error
	Save(ctx context.Context, category *model.ProductCategory) error
	FindBySlug(ctx context.Context, slug string) (*model.ProductCategory, error)
	ListActive(ctx context.Context) ([]model.ProductCategory, error)
	ActiveProductCounts(ctx context.Context) (map[uint]int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository builds a GORM-backed repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.ProductCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Save(ctx context.Context, category *model.ProductCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*model.ProductCategory, error) {
	var category model.ProductCategory
	if err := r.db.WithContext(ctx).Where("slug = ? AND active = ?", slug, true).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]model.ProductCategory, error) {
	var categories []model.ProductCategory
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("title ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ActiveProductCounts returns the number of active products per category.
func (r *categoryRepository) ActiveProductCounts(ctx context.Context) (map[uint]int64, error) {
	type row struct {
		CategoryID uint
		Count      int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("category_id, COUNT(*) AS count").
		Where("active = ? AND category_id IS NOT NULL", true).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	return counts, nil
}
