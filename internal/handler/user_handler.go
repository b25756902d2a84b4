package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront/internal/response"
	"storefront/internal/service"
)

// UserHandler handles profile and user administration endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest carries the editable profile fields. Absent
// fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Image     *string `json:"image"`
}

// ChangeStatusRequest toggles a user's active flag.
type ChangeStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Profile retrieved successfully", user, nil)
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Router /profile [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), userID, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Image:     req.Image,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Profile updated successfully", user, nil)
}

// ListUsers godoc
// @Summary List all users with statistics (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Body
// @Failure 403 {object} response.Body
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, stats, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Users retrieved successfully", echo.Map{
		"users":      users,
		"statistics": stats,
	}, response.Meta{"count": len(users)})
}

// ChangeUserStatus godoc
// @Summary Activate or deactivate a user (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body ChangeStatusRequest true "New status"
// @Success 200 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /users/{id}/status [patch]
func (h *UserHandler) ChangeUserStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return failCode(c, http.StatusBadRequest, "invalid user id", "INVALID_REQUEST")
	}

	var req ChangeStatusRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	user, err := h.userService.ChangeUserStatus(c.Request().Context(), id, *req.Active)
	if err != nil {
		return fail(c, err)
	}

	msg := "User activated successfully"
	if !user.Active {
		msg = "User deactivated successfully"
	}
	return response.Success(c, http.StatusOK, msg, user, nil)
}
