package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"pawpals/internal/domain"
	"pawpals/internal/mail"
	cartrepo "pawpals/internal/repository/cart"
)

type history interface {
	ListOrders(ctx context.Context, clientID int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, clientID, orderID int64) (*domain.Order, error)
}

type productCache interface {
	Invalidate(ctx context.Context, ids ...int64)
}

type clientLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

// Options carries the collaborators used after a checkout commits.
// Each of them may be nil.
type Options struct {
	Cache   productCache
	Clients clientLookup
	Mailer  mail.Sender
}

// Service turns carts into orders and reads order history.
type Service struct {
	store   cartrepo.Store
	history history
	opts    Options
	logger  *log.Logger
}

func New(store cartrepo.Store, history history, opts Options, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, history: history, opts: opts, logger: logger}
}

// PlaceOrder converts the client's cart into an order in a single unit of
// work: the order and its lines are written, stock is decremented and the
// cart is emptied, or nothing changes at all.
func (s *Service) PlaceOrder(ctx context.Context, clientID int64) (*domain.Order, error) {
	var order domain.Order
	err := s.store.InTx(ctx, func(tx cartrepo.Tx) error {
		cartID, err := tx.CartID(ctx, clientID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: cart not found", domain.ErrNotFound)
			}
			return err
		}

		lines, err := tx.LockLines(ctx, cartID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		order, err = tx.CreateOrder(ctx, clientID, domain.CartTotal(lines))
		if err != nil {
			return err
		}
		for _, l := range lines {
			line := domain.OrderLine{
				OrderID:   order.ID,
				ProductID: l.ProductID,
				Name:      l.Name,
				Quantity:  l.Quantity,
				UnitPrice: l.Price,
			}
			if err := tx.AddOrderLine(ctx, line); err != nil {
				return err
			}
			if err := tx.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, l.Name)
				}
				return err
			}
			order.Lines = append(order.Lines, line)
		}
		return tx.ClearLines(ctx, cartID)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrEmptyCart),
			errors.Is(err, domain.ErrInsufficientStock):
			return nil, err
		}
		s.logger.Printf("order service: checkout client_id=%d error=%v", clientID, err)
		return nil, domain.ErrCheckoutFailed
	}

	s.afterCheckout(ctx, order)
	return &order, nil
}

func (s *Service) afterCheckout(ctx context.Context, order domain.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if s.opts.Cache != nil {
		ids := make([]int64, 0, len(order.Lines))
		for _, l := range order.Lines {
			ids = append(ids, l.ProductID)
		}
		s.opts.Cache.Invalidate(ctx, ids...)
	}

	if s.opts.Clients == nil || s.opts.Mailer == nil {
		return
	}
	client, err := s.opts.Clients.GetByID(ctx, order.ClientID)
	if err != nil {
		s.logger.Printf("order service: confirmation lookup client_id=%d error=%v", order.ClientID, err)
		return
	}
	if err := s.opts.Mailer.Send(ctx, mail.OrderConfirmation(*client, order)); err != nil {
		s.logger.Printf("order service: confirmation mail order_id=%d error=%v", order.ID, err)
	}
}

func (s *Service) List(ctx context.Context, clientID int64) ([]domain.Order, error) {
	return s.history.ListOrders(ctx, clientID)
}

// Get returns one of the client's orders. Orders of other clients are
// reported as not found.
func (s *Service) Get(ctx context.Context, clientID, orderID int64) (*domain.Order, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: invalid order id", domain.ErrInvalidArgument)
	}
	return s.history.GetOrder(ctx, clientID, orderID)
}
