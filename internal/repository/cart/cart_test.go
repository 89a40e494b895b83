package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"pawpals/internal/db/dbtest"
	"pawpals/internal/domain"
)

func seedClientAndProduct(t *testing.T, ctx context.Context, exec func(ctx context.Context, q string, args ...any) error) {
	t.Helper()
	if err := exec(ctx, `INSERT INTO client (name, email, password_hash) VALUES ('Ana', 'ana@example.com', 'h')`); err != nil {
		t.Fatalf("insert client: %v", err)
	}
	if err := exec(ctx, `INSERT INTO product (name, price, stock) VALUES ('Laisse', 12.50, 3)`); err != nil {
		t.Fatalf("insert product: %v", err)
	}
}

func TestPostgres_AddClampAndCheckoutPrimitives(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	seedClientAndProduct(t, ctx, func(ctx context.Context, q string, args ...any) error {
		_, err := pool.Exec(ctx, q, args...)
		return err
	})

	store := NewPostgres(pool, nil)
	err := store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.CartID(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected no cart yet, got %v", err)
		}
		cartID, err := tx.EnsureCart(ctx, 1)
		if err != nil {
			return err
		}
		again, err := tx.EnsureCart(ctx, 1)
		if err != nil || again != cartID {
			t.Fatalf("EnsureCart not idempotent: %d vs %d (%v)", cartID, again, err)
		}

		qty, clamped, err := tx.AddLineQuantity(ctx, cartID, 1, 2, 3)
		if err != nil || qty != 2 || clamped {
			t.Fatalf("first add: qty=%d clamped=%v err=%v", qty, clamped, err)
		}
		qty, clamped, err = tx.AddLineQuantity(ctx, cartID, 1, 2, 3)
		if err != nil || qty != 3 || !clamped {
			t.Fatalf("second add: qty=%d clamped=%v err=%v", qty, clamped, err)
		}

		lines, err := tx.LockLines(ctx, cartID)
		if err != nil || len(lines) != 1 || lines[0].Name != "Laisse" || lines[0].Quantity != 3 {
			t.Fatalf("LockLines: %v %+v", err, lines)
		}
		if !lines[0].Price.Equal(decimal.RequireFromString("12.5")) {
			t.Fatalf("unexpected price %s", lines[0].Price)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	err = store.InTx(ctx, func(tx Tx) error {
		order, err := tx.CreateOrder(ctx, 1, decimal.RequireFromString("37.5"))
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPending {
			t.Fatalf("unexpected status %q", order.Status)
		}
		if err := tx.AddOrderLine(ctx, domain.OrderLine{OrderID: order.ID, ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("12.5")}); err != nil {
			return err
		}
		if err := tx.DecrementStock(ctx, 1, 3); err != nil {
			return err
		}
		if err := tx.DecrementStock(ctx, 1, 1); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		return tx.ClearLines(ctx, 1)
	})
	if err != nil {
		t.Fatalf("checkout tx: %v", err)
	}

	var stock int
	if err := pool.QueryRow(ctx, `SELECT stock FROM product WHERE id = 1`).Scan(&stock); err != nil || stock != 0 {
		t.Fatalf("expected stock 0, got %d (%v)", stock, err)
	}
}

func TestPostgres_InTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	seedClientAndProduct(t, ctx, func(ctx context.Context, q string, args ...any) error {
		_, err := pool.Exec(ctx, q, args...)
		return err
	})

	store := NewPostgres(pool, nil)
	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx Tx) error {
		cartID, err := tx.EnsureCart(ctx, 1)
		if err != nil {
			return err
		}
		if _, _, err := tx.AddLineQuantity(ctx, cartID, 1, 1, 3); err != nil {
			return err
		}
		if err := tx.DecrementStock(ctx, 1, 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var carts, stock int
	_ = pool.QueryRow(ctx, `SELECT count(*) FROM panier`).Scan(&carts)
	_ = pool.QueryRow(ctx, `SELECT stock FROM product WHERE id = 1`).Scan(&stock)
	if carts != 0 || stock != 3 {
		t.Fatalf("expected rollback, carts=%d stock=%d", carts, stock)
	}
}

func TestPostgres_SetAndDeleteLine(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	seedClientAndProduct(t, ctx, func(ctx context.Context, q string, args ...any) error {
		_, err := pool.Exec(ctx, q, args...)
		return err
	})

	store := NewPostgres(pool, nil)
	err := store.InTx(ctx, func(tx Tx) error {
		cartID, err := tx.EnsureCart(ctx, 1)
		if err != nil {
			return err
		}
		if err := tx.SetLineQuantity(ctx, cartID, 1, 2); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for missing line, got %v", err)
		}
		if _, _, err := tx.AddLineQuantity(ctx, cartID, 1, 1, 3); err != nil {
			return err
		}
		if err := tx.SetLineQuantity(ctx, cartID, 1, 2); err != nil {
			return err
		}
		if q, err := tx.LineQuantity(ctx, cartID, 1); err != nil || q != 2 {
			t.Fatalf("LineQuantity: %d %v", q, err)
		}
		if err := tx.DeleteLine(ctx, cartID, 1); err != nil {
			return err
		}
		if err := tx.DeleteLine(ctx, cartID, 1); err != nil {
			t.Fatalf("second delete should be a no-op, got %v", err)
		}
		lines, err := tx.Lines(ctx, cartID)
		if err != nil || len(lines) != 0 {
			t.Fatalf("expected empty cart, got %v %+v", err, lines)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
}
