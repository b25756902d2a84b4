package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/model"
	"storefront/internal/response"
	"storefront/internal/service"
)

// OrderHandler handles checkout and order history endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ShippingRequest carries the delivery details collected at checkout.
type ShippingRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

func (r ShippingRequest) toShippingInfo() service.ShippingInfo {
	return service.ShippingInfo{
		FullName:   r.FullName,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
	}
}

// BuyNowRequest orders a single product directly, skipping the cart.
type BuyNowRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
	ShippingRequest
}

// OrderItemView is the response shape of an order line.
type OrderItemView struct {
	ID          uint            `json:"id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderView is the response shape of an order.
type OrderView struct {
	OrderID     uuid.UUID         `json:"order_id"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	FullName    string            `json:"full_name"`
	Phone       string            `json:"phone"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	PostalCode  string            `json:"postal_code"`
	Paid        bool              `json:"is_paid"`
	CreatedAt   string            `json:"created_at"`
	Items       []OrderItemView   `json:"items"`
}

func newOrderView(order *model.Order) OrderView {
	view := OrderView{
		OrderID:     order.OrderID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		FullName:    order.FullName,
		Phone:       order.Phone,
		Address:     order.Address,
		City:        order.City,
		PostalCode:  order.PostalCode,
		Paid:        order.Paid,
		CreatedAt:   order.CreatedAt.UTC().Format(time.RFC3339),
		Items:       make([]OrderItemView, 0, len(order.Items)),
	}
	for i := range order.Items {
		item := &order.Items[i]
		view.Items = append(view.Items, OrderItemView{
			ID:          item.ID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return view
}

func newOrderViews(orders []model.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderView(&orders[i]))
	}
	return out
}

// Checkout godoc
// @Summary Convert the cart into an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ShippingRequest true "Shipping details"
// @Success 201 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 409 {object} response.Body
// @Router /orders/checkout [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req ShippingRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	order, err := h.orderService.Checkout(c.Request().Context(), userID, req.toShippingInfo())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusCreated, "Order placed successfully", newOrderView(order), nil)
}

// BuyNow godoc
// @Summary Order a single product directly
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BuyNowRequest true "Product, quantity and shipping details"
// @Success 201 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 404 {object} response.Body
// @Failure 409 {object} response.Body
// @Router /orders/buy-now [post]
func (h *OrderHandler) BuyNow(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req BuyNowRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	order, err := h.orderService.BuyNow(c.Request().Context(), userID, req.ProductID, req.Quantity, req.toShippingInfo())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusCreated, "Order placed successfully", newOrderView(order), nil)
}

// ListOrders godoc
// @Summary List the authenticated user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Items per page"
// @Success 200 {object} response.Body
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = service.DefaultPageSize
	} else if pageSize > service.MaxPageSize {
		pageSize = service.MaxPageSize
	}

	orders, total, err := h.orderService.ListOrders(c.Request().Context(), userID, page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Orders retrieved successfully",
		newOrderViews(orders), response.Pagination(total, page, pageSize))
}

// GetOrder godoc
// @Summary Get one of the authenticated user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return failCode(c, http.StatusNotFound, "order not found", "ORDER_NOT_FOUND")
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Order retrieved successfully", newOrderView(order), nil)
}
