package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"pawpals/internal/domain"
	cartrepo "pawpals/internal/repository/cart"
)

// Service manages a client's cart. Every write leaves each line at or
// below the product's stock.
type Service struct {
	store  cartrepo.Store
	logger *log.Logger
}

func New(store cartrepo.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, logger: logger}
}

// Result is the stored quantity after a cart write. Clamped is set when the
// requested quantity exceeded the stock.
type Result struct {
	Quantity int  `json:"quantity"`
	Clamped  bool `json:"clamped"`
}

// Get returns the cart lines. A client without a cart has an empty cart.
func (s *Service) Get(ctx context.Context, clientID int64) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := s.store.InTx(ctx, func(tx cartrepo.Tx) error {
		cartID, err := tx.CartID(ctx, clientID)
		if errors.Is(err, domain.ErrNotFound) {
			lines = []domain.CartLine{}
			return nil
		}
		if err != nil {
			return err
		}
		lines, err = tx.Lines(ctx, cartID)
		return err
	})
	if err != nil {
		s.logger.Printf("cart service: get client_id=%d error=%v", clientID, err)
		return nil, err
	}
	return lines, nil
}

// AddItem merges quantity into the product's line, creating the cart on first use.
func (s *Service) AddItem(ctx context.Context, clientID, productID int64, quantity int) (Result, error) {
	if productID <= 0 {
		return Result{}, fmt.Errorf("%w: productId is required", domain.ErrInvalidArgument)
	}
	if quantity <= 0 {
		return Result{}, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidArgument)
	}

	var res Result
	err := s.store.InTx(ctx, func(tx cartrepo.Tx) error {
		// The cart row is locked before the product, the same order checkout uses.
		cartID, err := tx.EnsureCart(ctx, clientID)
		if err != nil {
			return err
		}
		product, err := tx.Product(ctx, productID)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: product not found", domain.ErrInvalidArgument)
		}
		if err != nil {
			return err
		}
		if product.Stock <= 0 {
			return domain.ErrOutOfStock
		}
		res.Quantity, res.Clamped, err = tx.AddLineQuantity(ctx, cartID, productID, quantity, product.Stock)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// UpdateQuantity replaces a line's quantity, clamped to stock. A product
// that ran out of stock loses its line and reports quantity 0.
func (s *Service) UpdateQuantity(ctx context.Context, clientID, productID int64, quantity int) (Result, error) {
	if productID <= 0 {
		return Result{}, fmt.Errorf("%w: productId is required", domain.ErrInvalidArgument)
	}
	if quantity <= 0 {
		return Result{}, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidArgument)
	}

	var res Result
	err := s.store.InTx(ctx, func(tx cartrepo.Tx) error {
		cartID, err := tx.CartID(ctx, clientID)
		if err != nil {
			return notFound(err, "cart not found")
		}
		if _, err := tx.LineQuantity(ctx, cartID, productID); err != nil {
			return notFound(err, "product not in cart")
		}
		product, err := tx.Product(ctx, productID)
		if err != nil {
			return notFound(err, "product not found")
		}

		stored, clamped := domain.ClampToStock(quantity, product.Stock)
		res = Result{Quantity: stored, Clamped: clamped}
		if stored == 0 {
			return tx.DeleteLine(ctx, cartID, productID)
		}
		return tx.SetLineQuantity(ctx, cartID, productID, stored)
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// RemoveItem deletes the product's line. Removing an absent line succeeds.
func (s *Service) RemoveItem(ctx context.Context, clientID, productID int64) error {
	if productID <= 0 {
		return fmt.Errorf("%w: productId is required", domain.ErrInvalidArgument)
	}
	return s.store.InTx(ctx, func(tx cartrepo.Tx) error {
		cartID, err := tx.CartID(ctx, clientID)
		if err != nil {
			return notFound(err, "cart not found")
		}
		return tx.DeleteLine(ctx, cartID, productID)
	})
}

func notFound(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	}
	return err
}
