package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
	"pizzeria/internal/repository"
)

// DeliveryInput carries the non-cart fields of a checkout.
type DeliveryInput struct {
	DeliveryAddress string
	Phone           string
	Notes           string
}

// OrderService validates, prices and tracks orders.
type OrderService interface {
	ValidateAndPrice(ctx context.Context, accountID uuid.UUID, lines []CartLine, delivery DeliveryInput) (*model.Order, error)
	CreateOrder(ctx context.Context, accountID uuid.UUID, lines []CartLine, delivery DeliveryInput) (*model.Order, error)
	ListOrders(ctx context.Context, account *model.Account) ([]model.Order, error)
	GetOrder(ctx context.Context, account *model.Account, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	logger *slog.Logger,
) OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// ValidateAndPrice re-derives every line's price from the catalog and builds a pending order.
// Nothing is persisted.
func (s *orderService) ValidateAndPrice(ctx context.Context, accountID uuid.UUID, lines []CartLine, delivery DeliveryInput) (*model.Order, error) {
	items, total, err := PriceLines(ctx, lines, s.lookupAvailable)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &model.Order{
		ID:              uuid.New(),
		UserID:          accountID,
		Items:           items,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		DeliveryAddress: sanitizeText(delivery.DeliveryAddress, maxAddressLength),
		Phone:           sanitizeText(delivery.Phone, maxPhoneLength),
		Notes:           sanitizeText(delivery.Notes, maxNotesLength),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *orderService) lookupAvailable(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindAvailableByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductUnavailable
		}
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return product, nil
}

// CreateOrder validates, prices and persists an order.
func (s *orderService) CreateOrder(ctx context.Context, accountID uuid.UUID, lines []CartLine, delivery DeliveryInput) (*model.Order, error) {
	order, err := s.ValidateAndPrice(ctx, accountID, lines, delivery)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID.String()),
		slog.String("user_id", accountID.String()),
		slog.Int("items", len(order.Items)),
		slog.String("total", order.TotalAmount.StringFixed(2)),
	)

	return order, nil
}

// ListOrders returns every order for admins and the caller's own orders otherwise, newest first.
func (s *orderService) ListOrders(ctx context.Context, account *model.Account) ([]model.Order, error) {
	var (
		orders []model.Order
		err    error
	)
	if account.IsAdmin {
		orders, err = s.orderRepo.List(ctx)
	} else {
		orders, err = s.orderRepo.ListByUser(ctx, account.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one order. Customers cannot see other customers' orders.
func (s *orderService) GetOrder(ctx context.Context, account *model.Account, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	if !account.IsAdmin && order.UserID != account.ID {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus overwrites an order's status. Every status is reachable from every other.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, apperrors.ErrUnknownStatus
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	now := s.now()
	if err := s.orderRepo.UpdateStatus(ctx, id, status, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id.String()),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)),
	)

	order.Status = status
	order.UpdatedAt = now
	return order, nil
}
