package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/response"
)

// claimsFromContext extracts the typed JWT claims set by the echo-jwt
// middleware.
func claimsFromContext(c echo.Context) (*auth.Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims, nil
}

// userIDFromContext returns the authenticated user's UUID.
func userIDFromContext(c echo.Context) (uuid.UUID, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return id, nil
}

// fail translates a domain error to the envelope through the shared mapping.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return response.Error(c, httpErr.StatusCode, httpErr.Message, echo.Map{"code": httpErr.Code})
}

// failCode writes an explicit status/message/code error envelope.
func failCode(c echo.Context, statusCode int, message, code string) error {
	return response.Error(c, statusCode, message, echo.Map{"code": code})
}

// failValidation wraps a bind/validate failure.
func failValidation(c echo.Context, err error) error {
	return response.Error(c, http.StatusBadRequest, "Validation error.", echo.Map{
		"code":   "VALIDATION_ERROR",
		"detail": err.Error(),
	})
}
