package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/model"
	"storefront/internal/response"
	"storefront/internal/service"
)

// CartHandler handles the per-user cart endpoints.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddCartItemRequest adds a product line to the cart. Adding a product that
// is already in the cart replaces its quantity.
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// UpdateCartItemRequest changes a line's quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartItemView is the response shape of a cart line.
type CartItemView struct {
	ID       uint            `json:"id"`
	Product  ProductSummary  `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the response shape of the whole cart.
type CartView struct {
	ID         uint            `json:"id"`
	Items      []CartItemView  `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func newCartItemView(item *model.CartItem) CartItemView {
	return CartItemView{
		ID:       item.ID,
		Product:  newProductSummary(&item.Product),
		Quantity: item.Quantity,
		Subtotal: item.Subtotal(),
	}
}

func newCartView(cart *model.Cart) CartView {
	view := CartView{
		ID:         cart.ID,
		Items:      make([]CartItemView, 0, len(cart.Items)),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
	for i := range cart.Items {
		view.Items = append(view.Items, newCartItemView(&cart.Items[i]))
	}
	return view
}

// GetCart godoc
// @Summary Get the authenticated user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Body
// @Router /cart [get]
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	cart, err := h.cartService.GetCart(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Cart retrieved successfully", newCartView(cart),
		response.Meta{"count": len(cart.Items)})
}

// AddItem godoc
// @Summary Add a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddCartItemRequest true "Product and quantity"
// @Success 200 {object} response.Body
// @Success 201 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /cart [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	cart, created, err := h.cartService.AddItem(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}

	status := http.StatusOK
	msg := "Cart item updated successfully"
	if created {
		status = http.StatusCreated
		msg = "Item added to cart successfully"
	}
	return response.Success(c, status, msg, newCartView(cart), nil)
}

// UpdateItem godoc
// @Summary Change a cart line's quantity
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart item ID"
// @Param request body UpdateCartItemRequest true "New quantity"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return failCode(c, http.StatusBadRequest, "invalid cart item id", "INVALID_REQUEST")
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	item, err := h.cartService.UpdateItem(c.Request().Context(), userID, uint(itemID), req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Cart item updated successfully", newCartItemView(item), nil)
}

// RemoveItem godoc
// @Summary Remove a line from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart item ID"
// @Success 200 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return failCode(c, http.StatusBadRequest, "invalid cart item id", "INVALID_REQUEST")
	}

	if err := h.cartService.RemoveItem(c.Request().Context(), userID, uint(itemID)); err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Item removed from cart successfully", nil, nil)
}

// ClearCart godoc
// @Summary Remove every line from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Body
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	if err := h.cartService.ClearCart(c.Request().Context(), userID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Cart cleared successfully", nil, nil)
}
