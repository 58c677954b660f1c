package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"pizzeria/internal/errors"
	"pizzeria/internal/model"
	"pizzeria/internal/repository"
	"pizzeria/internal/service"
)

// CatalogHandler handles category and product endpoints.
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *slog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, logger: loggerOrDefault(logger)}
}

// CategoryRequest represents a category create or update request.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (r CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		SortOrder:   r.SortOrder,
		IsActive:    r.IsActive,
	}
}

// SizeRequest is one size variant of a product.
type SizeRequest struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Price decimal.Decimal `json:"price" swaggertype:"number"`
}

// ProductRequest represents a product create or update request.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description,omitempty" validate:"max=500"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	ImageURL    string          `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	Ingredients []string        `json:"ingredients,omitempty" validate:"max=50,dive,max=100"`
	Sizes       []SizeRequest   `json:"sizes,omitempty" validate:"max=20,dive"`
	IsAvailable *bool           `json:"is_available,omitempty"`
	IsFeatured  bool            `json:"is_featured"`
}

func (r ProductRequest) input() service.ProductInput {
	sizes := make([]model.SizeVariant, 0, len(r.Sizes))
	for _, s := range r.Sizes {
		sizes = append(sizes, model.SizeVariant{Name: s.Name, Price: s.Price})
	}
	// CategoryID is validated as a uuid by the request tags.
	categoryID, _ := uuid.Parse(r.CategoryID)
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  categoryID,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Ingredients: r.Ingredients,
		Sizes:       sizes,
		IsAvailable: r.IsAvailable,
		IsFeatured:  r.IsFeatured,
	}
}

// ListCategories godoc
// @Summary List active categories
// @Tags categories
// @Produce json
// @Success 200 {array} model.Category
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.catalogService.CreateCategory(c.Request().Context(), req.input())
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body CategoryRequest true "Category"
// @Success 200 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.catalogService.UpdateCategory(c.Request().Context(), id, req.input())
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalogService.DeleteCategory(c.Request().Context(), id); err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProducts godoc
// @Summary List available products
// @Tags products
// @Produce json
// @Param category_id query string false "Category ID"
// @Param featured query bool false "Only featured products"
// @Success 200 {array} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	var filter repository.ProductFilter

	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid category_id",
				Code:  "INVALID_UUID",
			})
		}
		filter.CategoryID = &categoryID
	}
	if raw := c.QueryParam("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid featured flag",
				Code:  "VALIDATION_ERROR",
			})
		}
		filter.Featured = &featured
	}

	products, err := h.catalogService.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.catalogService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products [post]
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.CreateProduct(c.Request().Context(), req.input())
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Replace a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body ProductRequest true "Product"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.UpdateProduct(c.Request().Context(), id, req.input())
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, product)
}

// SetProductAvailability godoc
// @Summary Toggle product availability
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param is_available query bool true "Availability"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id}/availability [put]
func (h *CatalogHandler) SetProductAvailability(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	available, err := strconv.ParseBool(c.QueryParam("is_available"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "is_available must be true or false",
			Code:  "VALIDATION_ERROR",
		})
	}

	product, err := h.catalogService.SetProductAvailability(c.Request().Context(), id, available)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalogService.DeleteProduct(c.Request().Context(), id); err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
