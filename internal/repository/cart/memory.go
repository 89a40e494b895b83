package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"pawpals/internal/domain"
)

// Memory is an in-process Store. Each unit of work runs on a copy of the
// state which replaces the committed one only when the work succeeds.
type Memory struct {
	mu    sync.Mutex
	state *memState

	// FailOn, when set, is consulted before every write primitive with the
	// primitive's name. A non-nil result is returned from that primitive.
	FailOn func(op string) error
}

type memLine struct {
	productID int64
	quantity  int
}

type memState struct {
	nextCart  int64
	nextOrder int64
	carts     map[int64]int64 // client id -> cart id
	lines     map[int64][]memLine
	products  map[int64]domain.Product
	orders    []domain.Order
}

func NewMemory() *Memory {
	return &Memory{state: &memState{
		carts:    map[int64]int64{},
		lines:    map[int64][]memLine{},
		products: map[int64]domain.Product{},
	}}
}

func (s *memState) clone() *memState {
	c := &memState{
		nextCart:  s.nextCart,
		nextOrder: s.nextOrder,
		carts:     make(map[int64]int64, len(s.carts)),
		lines:     make(map[int64][]memLine, len(s.lines)),
		products:  make(map[int64]domain.Product, len(s.products)),
		orders:    make([]domain.Order, len(s.orders)),
	}
	for k, v := range s.carts {
		c.carts[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]memLine(nil), v...)
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for i, o := range s.orders {
		o.Lines = append([]domain.OrderLine(nil), o.Lines...)
		c.orders[i] = o
	}
	return c
}

// PutProduct adds or replaces a product.
func (m *Memory) PutProduct(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.products[p.ID] = p
}

// Stock reports the current stock of a product.
func (m *Memory) Stock(productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.products[productID].Stock
}

// HasCart reports whether the client owns a cart.
func (m *Memory) HasCart(clientID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.state.carts[clientID]
	return ok
}

// OrderCount returns the number of orders across all clients.
func (m *Memory) OrderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.orders)
}

func (m *Memory) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memTx{state: work, failOn: m.FailOn}); err != nil {
		return err
	}
	m.state = work
	return nil
}

// ListOrders returns the client's orders, newest first, with their lines.
func (m *Memory) ListOrders(_ context.Context, clientID int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for i := len(m.state.orders) - 1; i >= 0; i-- {
		if o := m.state.orders[i]; o.ClientID == clientID {
			o.Lines = append([]domain.OrderLine(nil), o.Lines...)
			out = append(out, o)
		}
	}
	return out, nil
}

// GetOrder returns one of the client's orders or domain.ErrNotFound.
func (m *Memory) GetOrder(_ context.Context, clientID, orderID int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.state.orders {
		if o.ID == orderID && o.ClientID == clientID {
			o.Lines = append([]domain.OrderLine(nil), o.Lines...)
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memTx struct {
	state  *memState
	failOn func(op string) error
}

func (t *memTx) fail(op string) error {
	if t.failOn == nil {
		return nil
	}
	return t.failOn(op)
}

func (t *memTx) CartID(_ context.Context, clientID int64) (int64, error) {
	id, ok := t.state.carts[clientID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func (t *memTx) EnsureCart(ctx context.Context, clientID int64) (int64, error) {
	if id, ok := t.state.carts[clientID]; ok {
		return id, nil
	}
	if err := t.fail("EnsureCart"); err != nil {
		return 0, err
	}
	t.state.nextCart++
	t.state.carts[clientID] = t.state.nextCart
	return t.state.nextCart, nil
}

func (t *memTx) Lines(_ context.Context, cartID int64) ([]domain.CartLine, error) {
	out := []domain.CartLine{}
	for _, l := range t.state.lines[cartID] {
		p := t.state.products[l.productID]
		out = append(out, domain.CartLine{
			ProductID: l.productID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.quantity,
			ImageURL:  p.ImageURL,
			Stock:     p.Stock,
			Rating:    p.Rating,
		})
	}
	return out, nil
}

func (t *memTx) LockLines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	lines, err := t.Lines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

func (t *memTx) Product(_ context.Context, productID int64) (*domain.Product, error) {
	p, ok := t.state.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (t *memTx) lineIndex(cartID, productID int64) int {
	for i, l := range t.state.lines[cartID] {
		if l.productID == productID {
			return i
		}
	}
	return -1
}

func (t *memTx) LineQuantity(_ context.Context, cartID, productID int64) (int, error) {
	i := t.lineIndex(cartID, productID)
	if i < 0 {
		return 0, domain.ErrNotFound
	}
	return t.state.lines[cartID][i].quantity, nil
}

func (t *memTx) AddLineQuantity(_ context.Context, cartID, productID int64, delta, ceiling int) (int, bool, error) {
	if err := t.fail("AddLineQuantity"); err != nil {
		return 0, false, err
	}
	i := t.lineIndex(cartID, productID)
	if i < 0 {
		stored := min(delta, ceiling)
		t.state.lines[cartID] = append(t.state.lines[cartID], memLine{productID: productID, quantity: stored})
		return stored, stored < delta, nil
	}
	requested := t.state.lines[cartID][i].quantity + delta
	stored := min(requested, ceiling)
	t.state.lines[cartID][i].quantity = stored
	return stored, stored < requested, nil
}

func (t *memTx) SetLineQuantity(_ context.Context, cartID, productID int64, quantity int) error {
	if err := t.fail("SetLineQuantity"); err != nil {
		return err
	}
	i := t.lineIndex(cartID, productID)
	if i < 0 {
		return domain.ErrNotFound
	}
	t.state.lines[cartID][i].quantity = quantity
	return nil
}

func (t *memTx) DeleteLine(_ context.Context, cartID, productID int64) error {
	if err := t.fail("DeleteLine"); err != nil {
		return err
	}
	i := t.lineIndex(cartID, productID)
	if i < 0 {
		return nil
	}
	lines := t.state.lines[cartID]
	t.state.lines[cartID] = append(lines[:i:i], lines[i+1:]...)
	return nil
}

func (t *memTx) ClearLines(_ context.Context, cartID int64) error {
	if err := t.fail("ClearLines"); err != nil {
		return err
	}
	delete(t.state.lines, cartID)
	return nil
}

func (t *memTx) CreateOrder(_ context.Context, clientID int64, total decimal.Decimal) (domain.Order, error) {
	if err := t.fail("CreateOrder"); err != nil {
		return domain.Order{}, err
	}
	t.state.nextOrder++
	o := domain.Order{
		ID:        t.state.nextOrder,
		ClientID:  clientID,
		Status:    domain.OrderStatusPending,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	t.state.orders = append(t.state.orders, o)
	return o, nil
}

func (t *memTx) AddOrderLine(_ context.Context, line domain.OrderLine) error {
	if err := t.fail("AddOrderLine"); err != nil {
		return err
	}
	for i := range t.state.orders {
		if t.state.orders[i].ID == line.OrderID {
			line.Name = t.state.products[line.ProductID].Name
			t.state.orders[i].Lines = append(t.state.orders[i].Lines, line)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (t *memTx) DecrementStock(_ context.Context, productID int64, quantity int) error {
	if err := t.fail("DecrementStock"); err != nil {
		return err
	}
	p, ok := t.state.products[productID]
	if !ok || p.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	p.Stock -= quantity
	t.state.products[productID] = p
	return nil
}
