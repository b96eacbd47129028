package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/smartshop/backend/internal/domain"
)

var orderIDPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{6}$`)

func validOrder() *domain.OrderRequest {
	return &domain.OrderRequest{
		Items: []domain.OrderItem{
			{ProductID: "prod-amul-milk-fc", Size: "500ml", Quantity: 2, UnitPrice: 30},
		},
		TotalAmount: 60,
		Currency:    "INR",
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a confirmed order", func(t *testing.T) {
		repo := &fakeOrderRepo{}
		svc := NewOrderService(repo)

		resp, err := svc.Create(ctx, validOrder())
		if err != nil {
			t.Fatalf("Create() error = %v, want nil", err)
		}

		if resp.Status != "confirmed" {
			t.Errorf("Status = %s, want confirmed", resp.Status)
		}
		if !orderIDPattern.MatchString(resp.OrderID) {
			t.Errorf("OrderID = %s, want ORD-YYYYMMDD-XXXXXX", resp.OrderID)
		}
		if resp.Message == "" {
			t.Error("Message is empty, want confirmation text")
		}

		if repo.record == nil {
			t.Fatal("order was not persisted")
		}
		if repo.record.OrderID != resp.OrderID {
			t.Errorf("persisted OrderID = %s, want %s", repo.record.OrderID, resp.OrderID)
		}
		if repo.record.TotalAmount != 60 {
			t.Errorf("persisted TotalAmount = %f, want 60", repo.record.TotalAmount)
		}
	})

	t.Run("defaults currency to INR", func(t *testing.T) {
		repo := &fakeOrderRepo{}
		svc := NewOrderService(repo)

		req := validOrder()
		req.Currency = ""

		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("Create() error = %v, want nil", err)
		}
		if repo.record.Currency != "INR" {
			t.Errorf("Currency = %s, want INR", repo.record.Currency)
		}
	})

	t.Run("order ids are unique", func(t *testing.T) {
		repo := &fakeOrderRepo{}
		svc := NewOrderService(repo)

		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			resp, err := svc.Create(ctx, validOrder())
			if err != nil {
				t.Fatalf("Create() error = %v, want nil", err)
			}
			if seen[resp.OrderID] {
				t.Fatalf("duplicate OrderID %s", resp.OrderID)
			}
			seen[resp.OrderID] = true
		}
	})

	t.Run("rejects empty items", func(t *testing.T) {
		svc := NewOrderService(&fakeOrderRepo{})

		req := validOrder()
		req.Items = nil

		if _, err := svc.Create(ctx, req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Create() error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		svc := NewOrderService(&fakeOrderRepo{})

		req := validOrder()
		req.TotalAmount = 0

		if _, err := svc.Create(ctx, req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Create() error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("rejects zero quantity items", func(t *testing.T) {
		svc := NewOrderService(&fakeOrderRepo{})

		req := validOrder()
		req.Items[0].Quantity = 0

		if _, err := svc.Create(ctx, req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Create() error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("rejects nil request", func(t *testing.T) {
		svc := NewOrderService(&fakeOrderRepo{})

		if _, err := svc.Create(ctx, nil); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Create() error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		repo := &fakeOrderRepo{err: errors.New("db down")}
		svc := NewOrderService(repo)

		if _, err := svc.Create(ctx, validOrder()); err == nil {
			t.Error("Create() error = nil, want storage error")
		}
	})
}
