package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound is returned when a product is not found or inactive.
	ErrProductNotFound = errors.New("product not found")
	// ErrCartItemNotFound is returned when a cart line is not found for the user.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrOrderNotFound is returned when an order is not found for the user.
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmailNotFound is returned when neither a pending registration nor a
	// user exists for an email.
	ErrEmailNotFound = errors.New("no account or pending registration found for this email")
	// ErrOutOfStock is returned when a product has no quantity on hand.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrInvalidQuantity is returned when a requested quantity is below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrEmptyCart is returned when checkout is attempted with no cart lines.
	ErrEmptyCart = errors.New("your cart is empty")
	// ErrStockConflict is returned by the conditional stock decrement when the
	// row no longer holds enough quantity.
	ErrStockConflict = errors.New("stock changed concurrently")
)

// InsufficientStockError names the product that cannot cover the requested
// quantity.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("'%s' only has %d items left", e.ProductName, e.Available)
}

// ErrorResponse represents a standardized error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors collapse
// to a generic internal error; their text is never sent to the client.
func MapErrorToHTTP(err error) *HTTPError {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return NewHTTPError(http.StatusBadRequest, stockErr.Error(), "INSUFFICIENT_STOCK")
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrCartItemNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CART_ITEM_NOT_FOUND")
	case errors.Is(err, ErrOrderNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ORDER_NOT_FOUND")
	case errors.Is(err, ErrEmailNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "EMAIL_NOT_FOUND")
	case errors.Is(err, ErrOutOfStock):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "OUT_OF_STOCK")
	case errors.Is(err, ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_QUANTITY")
	case errors.Is(err, ErrEmptyCart):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_CART")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
