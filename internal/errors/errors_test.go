package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockError_Message(t *testing.T) {
	err := &InsufficientStockError{ProductName: "Headphones", Available: 2}
	assert.Equal(t, "'Headphones' only has 2 items left", err.Error())
}

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"user not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"product not found", ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"cart item not found", ErrCartItemNotFound, http.StatusNotFound, "CART_ITEM_NOT_FOUND"},
		{"order not found", ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"out of stock", ErrOutOfStock, http.StatusBadRequest, "OUT_OF_STOCK"},
		{"empty cart", ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{"insufficient stock", &InsufficientStockError{ProductName: "X", Available: 1}, http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"wrapped insufficient stock", fmt.Errorf("checkout: %w", &InsufficientStockError{ProductName: "X", Available: 1}), http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"unknown error", errors.New("dsn parse failed: secret"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
			assert.Equal(t, tt.expectedCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalDetails(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.Message)
	assert.NotContains(t, httpErr.Message, "10.0.0.5")
}
