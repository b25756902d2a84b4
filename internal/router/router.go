package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/response"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Auth routes
	api.POST("/register", authHandler.Register)
	api.POST("/verify-otp", authHandler.VerifyOTP)
	api.POST("/resend-otp", authHandler.ResendOTP)
	api.POST("/login", authHandler.Login)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password", authHandler.ResetPassword)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Catalog routes (public)
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/latest", productHandler.LatestProducts)
	api.GET("/products/:slug", productHandler.GetProduct)
	api.GET("/products/:slug/related", productHandler.RelatedProducts)
	api.GET("/categories", productHandler.ListCategories)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.Error(c, http.StatusUnauthorized, "Authentication required",
				echo.Map{"code": "UNAUTHORIZED"})
		},
	}))

	secured.POST("/change-password", authHandler.ChangePassword)
	secured.GET("/profile", userHandler.GetProfile)
	secured.PATCH("/profile", userHandler.UpdateProfile)

	// Cart routes
	secured.GET("/cart", cartHandler.GetCart)
	secured.POST("/cart", cartHandler.AddItem)
	secured.DELETE("/cart", cartHandler.ClearCart)
	secured.PATCH("/cart/items/:id", cartHandler.UpdateItem)
	secured.DELETE("/cart/items/:id", cartHandler.RemoveItem)

	// Order routes
	secured.POST("/orders/checkout", orderHandler.Checkout)
	secured.POST("/orders/buy-now", orderHandler.BuyNow)
	secured.GET("/orders", orderHandler.ListOrders)
	secured.GET("/orders/:id", orderHandler.GetOrder)

	// Admin routes
	admin := secured.Group("", RequireAdmin)
	admin.GET("/users", userHandler.ListUsers)
	admin.PATCH("/users/:id/status", userHandler.ChangeUserStatus)
}

// RequireAdmin rejects authenticated users without the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return response.Error(c, http.StatusUnauthorized, "Authentication required",
				echo.Map{"code": "UNAUTHORIZED"})
		}
		claims, ok := token.Claims.(*auth.Claims)
		if !ok || claims.Role != "admin" {
			return response.Error(c, http.StatusForbidden, "Admin access required",
				echo.Map{"code": "FORBIDDEN"})
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
