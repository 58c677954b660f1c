package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"pizzeria/internal/middleware"
	"pizzeria/internal/model"
	"pizzeria/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService service.OrderService
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: loggerOrDefault(logger)}
}

// CartItemRequest is one cart line with the unit price shown to the customer.
type CartItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty" validate:"max=100"`
	Price     decimal.Decimal `json:"price" swaggertype:"number"`
}

// CreateOrderRequest represents a checkout.
type CreateOrderRequest struct {
	Items           []CartItemRequest `json:"items" validate:"dive"`
	DeliveryAddress string            `json:"delivery_address,omitempty" validate:"max=300"`
	Phone           string            `json:"phone" validate:"required,max=32"`
	Notes           string            `json:"notes,omitempty" validate:"max=500"`
}

// UpdateStatusRequest is the optional JSON form of a status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder godoc
// @Summary Place an order
// @Description Every line is re-priced from the catalog. Claimed prices more than 0.01 away from the catalog price are rejected.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	account, _ := middleware.AccountFrom(c)

	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lines := make([]service.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		// ProductID is validated as a uuid by the request tags.
		productID, _ := uuid.Parse(item.ProductID)
		lines = append(lines, service.CartLine{
			ProductID: productID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Price:     item.Price,
		})
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), account.ID, lines, service.DeliveryInput{
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
		Notes:           req.Notes,
	})
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, order)
}

// ListOrders godoc
// @Summary List orders
// @Description Customers see their own orders, admins see all. Newest first.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	account, _ := middleware.AccountFrom(c)

	orders, err := h.orderService.ListOrders(c.Request().Context(), account)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder godoc
// @Summary Get an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	account, _ := middleware.AccountFrom(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), account, id)
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Change an order's status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param status query string false "New status" Enums(pending, confirmed, preparing, ready, delivered, cancelled)
// @Param request body UpdateStatusRequest false "New status"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	status := c.QueryParam("status")
	if status == "" {
		var req UpdateStatusRequest
		if err := c.Bind(&req); err != nil {
			return invalidRequest()
		}
		status = req.Status
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), id, model.OrderStatus(status))
	if err != nil {
		return serviceError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, order)
}
