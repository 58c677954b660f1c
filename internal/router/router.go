package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"pizzeria/docs"
	"pizzeria/internal/config"
	"pizzeria/internal/handler"
	"pizzeria/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Order   *handler.OrderHandler
	Seed    *handler.SeedHandler
}

// Middlewares groups the application middleware mounted by Register.
type Middlewares struct {
	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimiter
	Logger    *middleware.LoggerMiddleware
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, m Middlewares) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(m.Logger.Handle)
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(echomw.BodyLimit(cfg.Server.BodyLimit))

	e.Validator = NewValidator()

	if cfg.Swagger.Host != "" {
		docs.SwaggerInfo.Host = cfg.Swagger.Host
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	authenticated := m.Auth.Authenticate()
	admin := m.Auth.RequireAdmin

	// Public routes
	api.POST("/auth/register", h.Auth.Register, m.RateLimit.Handle)
	api.POST("/auth/login", h.Auth.Login, m.RateLimit.Handle)
	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/products", h.Catalog.ListProducts)
	api.GET("/products/:id", h.Catalog.GetProduct)

	// Secured routes
	api.POST("/auth/logout", h.Auth.Logout, authenticated)
	api.GET("/auth/me", h.Auth.Me, authenticated)
	api.POST("/orders", h.Order.CreateOrder, authenticated)
	api.GET("/orders", h.Order.ListOrders, authenticated)
	api.GET("/orders/:id", h.Order.GetOrder, authenticated)

	// Admin routes
	api.POST("/categories", h.Catalog.CreateCategory, authenticated, admin)
	api.PUT("/categories/:id", h.Catalog.UpdateCategory, authenticated, admin)
	api.DELETE("/categories/:id", h.Catalog.DeleteCategory, authenticated, admin)
	api.POST("/products", h.Catalog.CreateProduct, authenticated, admin)
	api.PUT("/products/:id", h.Catalog.UpdateProduct, authenticated, admin)
	api.DELETE("/products/:id", h.Catalog.DeleteProduct, authenticated, admin)
	api.PUT("/products/:id/availability", h.Catalog.SetProductAvailability, authenticated, admin)
	api.PUT("/orders/:id/status", h.Order.UpdateStatus, authenticated, admin)
	api.POST("/init-data", h.Seed.InitData, authenticated, admin)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by every handler.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
