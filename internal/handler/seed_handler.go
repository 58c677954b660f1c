package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	catalogService service.CatalogService
	logger         *slog.Logger
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(catalogService service.CatalogService, logger *slog.Logger) *SeedHandler {
	return &SeedHandler{catalogService: catalogService, logger: loggerOrDefault(logger)}
}

// InitData godoc
// @Summary Seed the sample menu
// @Description Inserts the sample categories and products when the catalog is empty.
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /init-data [post]
func (h *SeedHandler) InitData(c echo.Context) error {
	seeded, err := h.catalogService.SeedSampleMenu(c.Request().Context())
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	if !seeded {
		return c.JSON(http.StatusOK, MessageResponse{Message: "sample data already exists"})
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "sample data initialized successfully"})
}
