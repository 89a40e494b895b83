package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pawpals/internal/domain"
	"pawpals/internal/mail"
	cartrepo "pawpals/internal/repository/cart"
	cartsvc "pawpals/internal/service/cart"
)

type recordingCache struct {
	ids []int64
}

func (c *recordingCache) Invalidate(_ context.Context, ids ...int64) {
	c.ids = append(c.ids, ids...)
}

type stubClients struct{}

func (stubClients) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	return &domain.Client{ID: id, Name: "Ana", Email: "ana@example.com"}, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type fixture struct {
	store  *cartrepo.Memory
	carts  *cartsvc.Service
	orders *Service
	cache  *recordingCache
	mailer *recordingMailer
}

func newFixture(products ...domain.Product) fixture {
	store := cartrepo.NewMemory()
	for _, p := range products {
		store.PutProduct(p)
	}
	f := fixture{
		store:  store,
		carts:  cartsvc.New(store, nil),
		cache:  &recordingCache{},
		mailer: &recordingMailer{},
	}
	f.orders = New(store, store, Options{Cache: f.cache, Clients: stubClients{}, Mailer: f.mailer}, nil)
	return f
}

func priced(id int64, price string, stock int) domain.Product {
	return domain.Product{ID: id, Name: "product", Price: decimal.RequireFromString(price), Stock: stock}
}

func TestPlaceOrder_TotalsAndSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(priced(1, "10", 10), priced(2, "5", 10))
	_, err := f.carts.AddItem(ctx, 1, 1, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 1, 2, 1)
	require.NoError(t, err)

	order, err := f.orders.PlaceOrder(ctx, 1)
	require.NoError(t, err)
	require.True(t, order.Total.Equal(decimal.NewFromInt(25)), "total %s", order.Total)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, order.Lines, 2)
	require.Equal(t, int64(1), order.Lines[0].ProductID)
	require.Equal(t, 2, order.Lines[0].Quantity)
	require.True(t, order.Lines[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	require.Equal(t, int64(2), order.Lines[1].ProductID)
	require.Equal(t, 1, order.Lines[1].Quantity)

	stored, err := f.orders.Get(ctx, 1, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
}

func TestPlaceOrder_DrainsCartAndDecrementsStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(priced(1, "4.99", 10))
	_, err := f.carts.AddItem(ctx, 1, 1, 3)
	require.NoError(t, err)

	_, err = f.orders.PlaceOrder(ctx, 1)
	require.NoError(t, err)

	lines, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, lines)
	require.Equal(t, 7, f.store.Stock(1))
	require.True(t, f.store.HasCart(1), "cart row persists after checkout")
	require.Equal(t, []int64{1}, f.cache.ids)
	require.Len(t, f.mailer.sent, 1)
	require.Equal(t, "ana@example.com", f.mailer.sent[0].To)
}

func TestPlaceOrder_EmptyAndMissingCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(priced(1, "1", 5))

	_, err := f.orders.PlaceOrder(ctx, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.carts.AddItem(ctx, 1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, f.carts.RemoveItem(ctx, 1, 1))

	_, err = f.orders.PlaceOrder(ctx, 1)
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	require.Zero(t, f.store.OrderCount())
	require.Empty(t, f.mailer.sent)
}

func TestPlaceOrder_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(priced(1, "10", 5), priced(2, "3", 5))
	_, err := f.carts.AddItem(ctx, 1, 1, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 1, 2, 4)
	require.NoError(t, err)

	// stock shrinks behind the cart's back
	f.store.PutProduct(priced(2, "3", 1))

	_, err = f.orders.PlaceOrder(ctx, 1)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.Zero(t, f.store.OrderCount())
	require.Equal(t, 5, f.store.Stock(1), "earlier decrement must roll back")

	lines, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Empty(t, f.cache.ids)
}

func TestPlaceOrder_StoreFailureIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(priced(1, "10", 5))
	_, err := f.carts.AddItem(ctx, 1, 1, 2)
	require.NoError(t, err)

	f.store.FailOn = func(op string) error {
		if op == "ClearLines" {
			return errors.New("connection reset")
		}
		return nil
	}
	_, err = f.orders.PlaceOrder(ctx, 1)
	require.ErrorIs(t, err, domain.ErrCheckoutFailed)
	require.NotContains(t, err.Error(), "connection reset")
	require.Zero(t, f.store.OrderCount())
	require.Equal(t, 5, f.store.Stock(1))

	f.store.FailOn = nil
	lines, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestPlaceOrder_MailFailureDoesNotFailCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(priced(1, "10", 5))
	f.mailer.err = errors.New("smtp down")
	_, err := f.carts.AddItem(ctx, 1, 1, 1)
	require.NoError(t, err)

	order, err := f.orders.PlaceOrder(ctx, 1)
	require.NoError(t, err)
	require.NotZero(t, order.ID)
}

func TestScenario_AddTwiceThenCheckout(t *testing.T) {
	ctx := context.Background()
	price := decimal.RequireFromString("12.30")
	f := newFixture(domain.Product{ID: 7, Name: "Croquettes", Price: price, Stock: 20})

	_, err := f.carts.AddItem(ctx, 1, 7, 5)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 1, 7, 2)
	require.NoError(t, err)

	lines, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 7, lines[0].Quantity)

	order, err := f.orders.PlaceOrder(ctx, 1)
	require.NoError(t, err)
	require.True(t, order.Total.Equal(price.Mul(decimal.NewFromInt(7))))
	require.Equal(t, 13, f.store.Stock(7))

	lines, err = f.carts.Get(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestList_And_Get_AreScopedToClient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(priced(1, "2", 10))
	_, err := f.carts.AddItem(ctx, 1, 1, 1)
	require.NoError(t, err)
	order, err := f.orders.PlaceOrder(ctx, 1)
	require.NoError(t, err)

	mine, err := f.orders.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := f.orders.List(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, theirs)

	_, err = f.orders.Get(ctx, 2, order.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.orders.Get(ctx, 1, 0)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
