package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pawpals/internal/domain"
)

type postgresStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresStore{pool: pool, logger: logger}
}

func (s *postgresStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		s.logger.Printf("cart store: commit error=%v", err)
		return err
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) CartID(ctx context.Context, clientID int64) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `SELECT id FROM panier WHERE client_id = $1 FOR UPDATE`, clientID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return id, err
}

func (t *pgTx) EnsureCart(ctx context.Context, clientID int64) (int64, error) {
	const q = `
INSERT INTO panier (client_id) VALUES ($1)
ON CONFLICT (client_id) DO UPDATE SET client_id = EXCLUDED.client_id
RETURNING id
`
	var id int64
	err := t.tx.QueryRow(ctx, q, clientID).Scan(&id)
	return id, err
}

const selectLines = `
SELECT pp.product_id, p.name, p.price, pp.quantity, p.image_url, p.stock, p.rating
FROM panier_produit pp
JOIN product p ON p.id = pp.product_id
WHERE pp.cart_id = $1
`

func (t *pgTx) Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	return t.queryLines(ctx, selectLines+"ORDER BY pp.added_at ASC, pp.product_id ASC", cartID)
}

func (t *pgTx) LockLines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	return t.queryLines(ctx, selectLines+"ORDER BY pp.product_id ASC\nFOR UPDATE OF pp, p", cartID)
}

func (t *pgTx) queryLines(ctx context.Context, q string, cartID int64) ([]domain.CartLine, error) {
	rows, err := t.tx.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Price, &l.Quantity, &l.ImageURL, &l.Stock, &l.Rating); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (t *pgTx) Product(ctx context.Context, productID int64) (*domain.Product, error) {
	const q = `
SELECT id, name, description, price, stock, image_url, category_id, rating, created_at
FROM product
WHERE id = $1
FOR SHARE
`
	var p domain.Product
	err := t.tx.QueryRow(ctx, q, productID).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.ImageURL, &p.CategoryID, &p.Rating, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *pgTx) LineQuantity(ctx context.Context, cartID, productID int64) (int, error) {
	const q = `
SELECT quantity FROM panier_produit
WHERE cart_id = $1 AND product_id = $2
FOR UPDATE
`
	var qty int
	err := t.tx.QueryRow(ctx, q, cartID, productID).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return qty, err
}

func (t *pgTx) AddLineQuantity(ctx context.Context, cartID, productID int64, delta, ceiling int) (int, bool, error) {
	prev, err := t.LineQuantity(ctx, cartID, productID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, false, err
	}

	const q = `
INSERT INTO panier_produit (cart_id, product_id, quantity)
VALUES ($1, $2, LEAST($3::int, $4::int))
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = LEAST(panier_produit.quantity + $3::int, $4::int)
RETURNING quantity
`
	var stored int
	if err := t.tx.QueryRow(ctx, q, cartID, productID, delta, ceiling).Scan(&stored); err != nil {
		return 0, false, err
	}
	return stored, stored < prev+delta, nil
}

func (t *pgTx) SetLineQuantity(ctx context.Context, cartID, productID int64, quantity int) error {
	cmd, err := t.tx.Exec(ctx, `
UPDATE panier_produit SET quantity = $3
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *pgTx) DeleteLine(ctx context.Context, cartID, productID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM panier_produit WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	return err
}

func (t *pgTx) ClearLines(ctx context.Context, cartID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM panier_produit WHERE cart_id = $1`, cartID)
	return err
}

func (t *pgTx) CreateOrder(ctx context.Context, clientID int64, total decimal.Decimal) (domain.Order, error) {
	const q = `
INSERT INTO commande (client_id, status, total)
VALUES ($1, $2, $3)
RETURNING id, client_id, status, total, created_at
`
	var o domain.Order
	err := t.tx.QueryRow(ctx, q, clientID, domain.OrderStatusPending, total).Scan(
		&o.ID, &o.ClientID, &o.Status, &o.Total, &o.CreatedAt)
	return o, err
}

func (t *pgTx) AddOrderLine(ctx context.Context, line domain.OrderLine) error {
	_, err := t.tx.Exec(ctx, `
INSERT INTO commande_produit (order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
`, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice)
	return err
}

func (t *pgTx) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	cmd, err := t.tx.Exec(ctx, `
UPDATE product SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, productID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}
