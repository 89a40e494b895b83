package order

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pawpals/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListOrders(ctx context.Context, clientID int64) ([]domain.Order, error) {
	const q = `
SELECT id, client_id, status, total, created_at
FROM commande
WHERE client_id = $1
ORDER BY created_at DESC, id DESC
`
	rows, err := r.pool.Query(ctx, q, clientID)
	if err != nil {
		r.logger.Printf("order repo: list client_id=%d error=%v", clientID, err)
		return nil, err
	}
	orders := []domain.Order{}
	index := map[int64]int{}
	var ids []int64
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.Status, &o.Total, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	lines, err := r.lines(ctx, `WHERE cp.order_id = ANY($1)`, ids)
	if err != nil {
		r.logger.Printf("order repo: list lines client_id=%d error=%v", clientID, err)
		return nil, err
	}
	for _, l := range lines {
		i := index[l.OrderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}
	return orders, nil
}

func (r *postgresRepo) GetOrder(ctx context.Context, clientID, orderID int64) (*domain.Order, error) {
	const q = `
SELECT id, client_id, status, total, created_at
FROM commande
WHERE id = $1 AND client_id = $2
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, orderID, clientID).Scan(&o.ID, &o.ClientID, &o.Status, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%d error=%v", orderID, err)
		return nil, err
	}
	o.Lines, err = r.lines(ctx, `WHERE cp.order_id = $1`, o.ID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) lines(ctx context.Context, where string, arg any) ([]domain.OrderLine, error) {
	q := `
SELECT cp.order_id, cp.product_id, p.name, cp.quantity, cp.unit_price
FROM commande_produit cp
JOIN product p ON p.id = cp.product_id
` + where + `
ORDER BY cp.order_id, cp.product_id`
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.Name, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
