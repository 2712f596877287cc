package store

import "context"

// Reader is the read side of the persistence boundary. Reads issued on a
// Store run outside any transaction; reads issued on a Tx see that
// transaction's uncommitted writes.
type Reader interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	GetDetail(ctx context.Context, id string) (*OrderDetail, error)
	DetailsForOrder(ctx context.Context, orderID string) ([]OrderDetail, error)
}

type Store interface {
	Reader

	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic unit of work. LockProduct acquires an exclusive
// row-level lock held until Commit or Rollback; every stock
// read-then-write for a product must happen under that one acquisition.
type Tx interface {
	Reader

	LockProduct(ctx context.Context, id string) (*Product, error)
	SaveStock(ctx context.Context, productID string, stock int) error

	InsertProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error

	InsertOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, id string) error

	InsertDetail(ctx context.Context, d *OrderDetail) error
	SaveDetailQuantity(ctx context.Context, detailID string, quantity int) error
	DeleteDetail(ctx context.Context, detailID string) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
