package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"pawpals/internal/domain"
)

func TestMemory_RollbackDiscardsWork(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutProduct(domain.Product{ID: 1, Name: "Balle", Price: decimal.NewFromInt(2), Stock: 5})

	boom := errors.New("boom")
	err := m.InTx(ctx, func(tx Tx) error {
		cartID, _ := tx.EnsureCart(ctx, 9)
		_, _, _ = tx.AddLineQuantity(ctx, cartID, 1, 2, 5)
		_ = tx.DecrementStock(ctx, 1, 2)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if m.HasCart(9) || m.Stock(1) != 5 {
		t.Fatalf("state leaked from failed unit of work")
	}
}

func TestMemory_FailOnInjectsErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	injected := errors.New("disk full")
	m.FailOn = func(op string) error {
		if op == "CreateOrder" {
			return injected
		}
		return nil
	}
	err := m.InTx(ctx, func(tx Tx) error {
		_, err := tx.CreateOrder(ctx, 1, decimal.Zero)
		return err
	})
	if !errors.Is(err, injected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if m.OrderCount() != 0 {
		t.Fatalf("expected no orders")
	}
}

func TestMemory_OrdersAreScopedToClient(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutProduct(domain.Product{ID: 1, Name: "Balle", Price: decimal.NewFromInt(2), Stock: 5})
	var orderID int64
	err := m.InTx(ctx, func(tx Tx) error {
		o, err := tx.CreateOrder(ctx, 1, decimal.NewFromInt(2))
		if err != nil {
			return err
		}
		orderID = o.ID
		return tx.AddOrderLine(ctx, domain.OrderLine{OrderID: o.ID, ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(2)})
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	got, err := m.GetOrder(ctx, 1, orderID)
	if err != nil || len(got.Lines) != 1 || got.Lines[0].Name != "Balle" {
		t.Fatalf("GetOrder: %v %+v", err, got)
	}
	if _, err := m.GetOrder(ctx, 2, orderID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other client, got %v", err)
	}
	list, _ := m.ListOrders(ctx, 2)
	if len(list) != 0 {
		t.Fatalf("expected no orders for other client")
	}
}
