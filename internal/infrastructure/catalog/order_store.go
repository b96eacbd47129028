package catalog

import (
	"context"
	"fmt"

	"github.com/smartshop/backend/internal/domain"
	"gorm.io/gorm"
)

// OrderStore persists confirmed orders
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore creates an order store
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create writes the order and its items in one transaction
func (s *OrderStore) Create(ctx context.Context, record *domain.OrderRecord) error {
	order := Order{
		OrderID:     record.OrderID,
		TotalAmount: record.TotalAmount,
		Currency:    record.Currency,
		Status:      record.Status,
	}

	for _, item := range record.Items {
		order.Items = append(order.Items, OrderItem{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice * float64(item.Quantity),
		})
	}

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return fmt.Errorf("failed to persist order %s: %w", record.OrderID, err)
	}
	return nil
}
