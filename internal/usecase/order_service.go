package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/logger"
)

// OrderService validates and persists orders
type OrderService struct {
	orders domain.OrderRepository
}

// NewOrderService creates an order service
func NewOrderService(orders domain.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// Create validates the order request and persists a confirmed order
func (s *OrderService) Create(ctx context.Context, request *domain.OrderRequest) (*domain.OrderResponse, error) {
	if request == nil || len(request.Items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", domain.ErrInvalidRequest)
	}
	if request.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", domain.ErrInvalidRequest)
	}
	for _, item := range request.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item quantity must be at least 1", domain.ErrInvalidRequest)
		}
	}

	currency := request.Currency
	if currency == "" {
		currency = "INR"
	}

	record := &domain.OrderRecord{
		OrderID:     newOrderID(),
		TotalAmount: request.TotalAmount,
		Currency:    currency,
		Status:      "confirmed",
		Items:       request.Items,
	}

	if err := s.orders.Create(ctx, record); err != nil {
		return nil, err
	}

	logger.Infof("order created: %s, total: %.2f %s", record.OrderID, record.TotalAmount, record.Currency)

	return &domain.OrderResponse{
		Status:  "confirmed",
		OrderID: record.OrderID,
		Message: fmt.Sprintf("Order %s has been placed successfully", record.OrderID),
	}, nil
}

// newOrderID builds ids like ORD-20250107-3FA2B1
func newOrderID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
