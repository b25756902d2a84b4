package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/response"
	"storefront/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Image     string `json:"image"`
}

// VerifyOTPRequest represents an OTP verification request.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// EmailRequest carries a bare email (resend/forgot).
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ResetPasswordRequest represents a password reset completion request.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ChangePasswordRequest represents an authenticated password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// TokenPair carries the issued session tokens.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Register godoc
// @Summary Register and send a verification OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 409 {object} response.Body
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Image:     req.Image,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			return failCode(c, http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
		}
		c.Logger().Errorf("register %s: %v", req.Email, err)
		return failCode(c, http.StatusInternalServerError, "Failed to send OTP. Please try again.", "INTERNAL_ERROR")
	}

	return response.Success(c, http.StatusOK, "OTP sent to "+req.Email, echo.Map{"email": req.Email}, nil)
}

// VerifyOTP godoc
// @Summary Verify a one-time code for registration or password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Email and code"
// @Success 200 {object} response.Body
// @Success 201 {object} response.Body
// @Failure 400 {object} response.Body
// @Router /verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	result, err := h.authService.VerifyOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOTP):
			return failCode(c, http.StatusBadRequest, "Invalid OTP.", "INVALID_OTP")
		case errors.Is(err, service.ErrOTPExpired):
			return failCode(c, http.StatusBadRequest, "OTP has expired. Please request a new one.", "OTP_EXPIRED")
		}
		c.Logger().Errorf("verify otp %s: %v", req.Email, err)
		return failCode(c, http.StatusInternalServerError, "OTP verification failed. Please try again.", "INTERNAL_ERROR")
	}

	if result.Registered {
		return response.Success(c, http.StatusCreated, "Registration completed successfully", echo.Map{
			"user": result.User,
			"tokens": TokenPair{
				Access:  result.AccessToken,
				Refresh: result.RefreshToken,
			},
		}, nil)
	}
	return response.Success(c, http.StatusOK, "OTP verified successfully. Please set your new password.", echo.Map{
		"email": req.Email,
	}, nil)
}

// ResendOTP godoc
// @Summary Resend a one-time code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailRequest true "Email"
// @Success 200 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /resend-otp [post]
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	if err := h.authService.ResendOTP(c.Request().Context(), req.Email); err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "OTP resent to "+req.Email, echo.Map{"email": req.Email}, nil)
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	access, refresh, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return failCode(c, http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
		}
		c.Logger().Errorf("login %s: %v", req.Email, err)
		return failCode(c, http.StatusInternalServerError, "Login failed. Please try again.", "INTERNAL_ERROR")
	}

	return response.Success(c, http.StatusOK, "Login successful", echo.Map{
		"user":   user,
		"tokens": TokenPair{Access: access, Refresh: refresh},
	}, nil)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	access, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return failCode(c, http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
		}
		c.Logger().Errorf("refresh token: %v", err)
		return failCode(c, http.StatusInternalServerError, "Failed to refresh token.", "INTERNAL_ERROR")
	}

	return response.Success(c, http.StatusOK, "Token refreshed", echo.Map{
		"tokens": TokenPair{Access: access},
	}, nil)
}

// Logout godoc
// @Summary Invalidate a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return failCode(c, http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
		}
		c.Logger().Errorf("logout: %v", err)
		return failCode(c, http.StatusInternalServerError, "Failed to logout.", "INTERNAL_ERROR")
	}

	return response.Success(c, http.StatusOK, "Logged out successfully", nil, nil)
}

// ForgotPassword godoc
// @Summary Send a password reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailRequest true "Email"
// @Success 200 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "OTP sent to "+req.Email, echo.Map{"email": req.Email}, nil)
}

// ResetPassword godoc
// @Summary Set a new password after OTP verification
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Email and new password"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Failure 404 {object} response.Body
// @Router /reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrVerificationRequired) {
			return failCode(c, http.StatusBadRequest, err.Error(), "VERIFICATION_REQUIRED")
		}
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Password reset successfully", nil, nil)
}

// ChangePassword godoc
// @Summary Change password for the authenticated user
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} response.Body
// @Failure 400 {object} response.Body
// @Router /change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return failCode(c, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return failValidation(c, err)
	}

	err = h.authService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			return failCode(c, http.StatusBadRequest, err.Error(), "WRONG_PASSWORD")
		}
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, "Password changed successfully", nil, nil)
}
