package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the read
// queries can run pooled or transaction-scoped.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PG struct {
	queries
	DB *pgxpool.Pool
}

var (
	_ Store = (*PG)(nil)
	_ Tx    = (*pgTx)(nil)
)

func NewPG(db *pgxpool.Pool) *PG {
	return &PG{queries: queries{q: db}, DB: db}
}

func (s *PG) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &pgTx{queries: queries{q: tx}, tx: tx}, nil
}

type pgTx struct {
	queries
	tx pgx.Tx
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func (t *pgTx) LockProduct(ctx context.Context, id string) (*Product, error) {
	row := t.tx.QueryRow(ctx,
		`SELECT id, name, price::text, stock FROM products WHERE id=$1 FOR UPDATE`, id)
	return scanProduct(row)
}

func (t *pgTx) SaveStock(ctx context.Context, productID string, stock int) error {
	ct, err := t.tx.Exec(ctx, `UPDATE products SET stock=$2 WHERE id=$1`, productID, stock)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

func (t *pgTx) InsertProduct(ctx context.Context, p *Product) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO products(id, name, price, stock) VALUES ($1, $2, $3::numeric, $4)`,
		p.ID, p.Name, p.Price.String(), p.Stock)
	return err
}

func (t *pgTx) DeleteProduct(ctx context.Context, id string) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO orders(id, created_at) VALUES ($1, $2)`, o.ID, o.CreatedAt)
	return err
}

func (t *pgTx) DeleteOrder(ctx context.Context, id string) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

func (t *pgTx) InsertDetail(ctx context.Context, d *OrderDetail) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO order_details(id, order_id, product_id, quantity)
		 VALUES ($1, $2, $3, $4)`,
		d.ID, d.OrderID, d.ProductID, d.Quantity)
	return err
}

func (t *pgTx) SaveDetailQuantity(ctx context.Context, detailID string, quantity int) error {
	ct, err := t.tx.Exec(ctx,
		`UPDATE order_details SET quantity=$2 WHERE id=$1`, detailID, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

func (t *pgTx) DeleteDetail(ctx context.Context, detailID string) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM order_details WHERE id=$1`, detailID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

type queries struct{ q querier }

func (s queries) GetProduct(ctx context.Context, id string) (*Product, error) {
	row := s.q.QueryRow(ctx,
		`SELECT id, name, price::text, stock FROM products WHERE id=$1`, id)
	return scanProduct(row)
}

func (s queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, name, price::text, stock FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		var price string
		if err := rows.Scan(&p.ID, &p.Name, &price, &p.Stock); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s queries) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := s.q.QueryRow(ctx,
		`SELECT id, created_at FROM orders WHERE id=$1`, id).Scan(&o.ID, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Details, err = s.DetailsForOrder(ctx, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s queries) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := s.q.Query(ctx, `SELECT id, created_at FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].Details, err = s.DetailsForOrder(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s queries) GetDetail(ctx context.Context, id string) (*OrderDetail, error) {
	var d OrderDetail
	err := s.q.QueryRow(ctx,
		`SELECT id, order_id, product_id, quantity FROM order_details WHERE id=$1`, id).
		Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s queries) DetailsForOrder(ctx context.Context, orderID string) ([]OrderDetail, error) {
	rows, err := s.q.Query(ctx, `
		SELECT d.id, d.order_id, d.product_id, d.quantity,
		       p.name, p.price::text, p.stock
		FROM order_details d
		JOIN products p ON p.id = d.product_id
		WHERE d.order_id = $1
		ORDER BY d.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderDetail
	for rows.Next() {
		var d OrderDetail
		var price string
		p := &Product{}
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity,
			&p.Name, &price, &p.Stock); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		p.ID = d.ProductID
		d.Product = p
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var price string
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	p.Price = d
	return &p, nil
}
