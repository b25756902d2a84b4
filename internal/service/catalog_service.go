package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const (
	catalogCacheTTL = 5 * time.Minute

	relatedLimit = 8
	latestLimit  = 10

	// DefaultPageSize is the catalog page size; MaxPageSize caps the
	// page_size query parameter.
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// CategoryWithCount pairs a category with its active product count.
type CategoryWithCount struct {
	model.ProductCategory
	ProductCount int64 `json:"product_count"`
}

// CatalogService handles the read-only product browsing surface.
type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(ctx context.Context, slug string) (*model.Product, error)
	RelatedProducts(ctx context.Context, slug string) ([]model.Product, error)
	LatestProducts(ctx context.Context) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]CategoryWithCount, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cache *cache.Client,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// ListProducts applies defaults and caps to the filter, then pages through
// the repository. Listings are not cached; the filter space is too wide.
func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}
	return s.productRepo.List(ctx, filter)
}

// GetProduct returns a full product by slug, cached per slug.
func (s *catalogService) GetProduct(ctx context.Context, slug string) (*model.Product, error) {
	key := "product:" + slug
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if payload, err := json.Marshal(product); err == nil {
		_ = s.cache.Set(ctx, key, payload, catalogCacheTTL)
	}
	return product, nil
}

// RelatedProducts returns up to relatedLimit products from the same
// category, featured-first then newest.
func (s *catalogService) RelatedProducts(ctx context.Context, slug string) ([]model.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return s.productRepo.Related(ctx, product, relatedLimit)
}

// LatestProducts returns the latestLimit newest active products, cached.
func (s *catalogService) LatestProducts(ctx context.Context) ([]model.Product, error) {
	const key = "products:latest"
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.productRepo.Latest(ctx, latestLimit)
	if err != nil {
		return nil, fmt.Errorf("latest products: %w", err)
	}

	if payload, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, key, payload, catalogCacheTTL)
	}
	return products, nil
}

// ListCategories returns active categories with product counts, cached.
func (s *catalogService) ListCategories(ctx context.Context) ([]CategoryWithCount, error) {
	const key = "categories"
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []CategoryWithCount
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	counts, err := s.categoryRepo.ActiveProductCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	result := make([]CategoryWithCount, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategoryWithCount{
			ProductCategory: c,
			ProductCount:    counts[c.ID],
		})
	}

	if payload, err := json.Marshal(result); err == nil {
		_ = s.cache.Set(ctx, key, payload, catalogCacheTTL)
	}
	return result, nil
}
