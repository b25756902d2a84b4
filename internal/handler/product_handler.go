package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/response"
	"storefront/internal/service"
)

// ProductHandler handles the public catalog endpoints.
type ProductHandler struct {
	catalogService service.CatalogService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalogService service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ProductSummary is the list-view shape of a product.
type ProductSummary struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Category        string          `json:"category,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	InStock         bool            `json:"is_in_stock"`
	Featured        bool            `json:"is_featured"`
	PrimaryImage    string          `json:"primary_image,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ProductDetail is the full shape of a product.
type ProductDetail struct {
	ProductSummary
	Title          string                        `json:"title,omitempty"`
	Description    string                        `json:"description,omitempty"`
	SKU            string                        `json:"sku"`
	Quantity       int                           `json:"quantity"`
	CategoryDetail *model.ProductCategory        `json:"category_detail,omitempty"`
	Images         []model.ProductMedia          `json:"images"`
	AdditionalInfo []model.AdditionalInformation `json:"additional_info"`
}

func newProductSummary(p *model.Product) ProductSummary {
	s := ProductSummary{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Price:           p.Price,
		Discount:        p.Discount,
		DiscountedPrice: p.DiscountedPrice(),
		InStock:         p.InStock(),
		Featured:        p.Featured,
		PrimaryImage:    model.PrimaryImage(p.Images),
		CreatedAt:       p.CreatedAt,
	}
	if p.Category != nil {
		s.Category = p.Category.Title
	}
	return s
}

func newProductDetail(p *model.Product) ProductDetail {
	d := ProductDetail{
		ProductSummary: newProductSummary(p),
		Title:          p.Title,
		Description:    p.Description,
		SKU:            p.SKU,
		Quantity:       p.Quantity,
		CategoryDetail: p.Category,
		Images:         p.Images,
		AdditionalInfo: p.AdditionalInfo,
	}
	if d.Images == nil {
		d.Images = []model.ProductMedia{}
	}
	if d.AdditionalInfo == nil {
		d.AdditionalInfo = []model.AdditionalInformation{}
	}
	return d
}

func newProductSummaries(products []model.Product) []ProductSummary {
	out := make([]ProductSummary, 0, len(products))
	for i := range products {
		out = append(out, newProductSummary(&products[i]))
	}
	return out
}

// ListProducts godoc
// @Summary List active products with filtering and pagination
// @Tags products
// @Produce json
// @Param search query string false "Search in name, title and description"
// @Param category query string false "Category slug"
// @Param featured query bool false "Only featured products"
// @Param in_stock query bool false "Only products with stock"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param ordering query string false "Ordering" Enums(price, -price, created_at, -created_at, name, -name)
// @Param page query int false "Page number"
// @Param page_size query int false "Items per page (max 100)"
// @Success 200 {object} response.Body
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter := repository.ProductFilter{
		Search:       c.QueryParam("search"),
		CategorySlug: c.QueryParam("category"),
		Ordering:     c.QueryParam("ordering"),
	}
	filter.Featured, _ = strconv.ParseBool(c.QueryParam("featured"))
	filter.InStock, _ = strconv.ParseBool(c.QueryParam("in_stock"))
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	if raw := c.QueryParam("min_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &v
		}
	}

	products, total, err := h.catalogService.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = service.DefaultPageSize
	} else if pageSize > service.MaxPageSize {
		pageSize = service.MaxPageSize
	}

	return response.Success(c, http.StatusOK, "Products retrieved successfully",
		newProductSummaries(products), response.Pagination(total, page, pageSize))
}

// GetProduct godoc
// @Summary Get a product by slug
// @Tags products
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /products/{slug} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.catalogService.GetProduct(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Product retrieved successfully", newProductDetail(product), nil)
}

// RelatedProducts godoc
// @Summary List products related to a product
// @Tags products
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /products/{slug}/related [get]
func (h *ProductHandler) RelatedProducts(c echo.Context) error {
	products, err := h.catalogService.RelatedProducts(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Related products retrieved successfully",
		newProductSummaries(products), response.Meta{"count": len(products)})
}

// LatestProducts godoc
// @Summary List the most recently added products
// @Tags products
// @Produce json
// @Success 200 {object} response.Body
// @Router /products/latest [get]
func (h *ProductHandler) LatestProducts(c echo.Context) error {
	products, err := h.catalogService.LatestProducts(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Latest products retrieved successfully",
		newProductSummaries(products), response.Meta{"count": len(products)})
}

// ListCategories godoc
// @Summary List active categories with product counts
// @Tags products
// @Produce json
// @Success 200 {object} response.Body
// @Router /categories [get]
func (h *ProductHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Categories retrieved successfully",
		categories, response.Meta{"count": len(categories)})
}
