package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the order engine. Every mutating operation runs as one
// atomic transaction; any failure rolls back everything done so far.
type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// CreateOrder creates an order together with its details. On a stock
// shortage nothing is kept, order row included.
func (s *Service) CreateOrder(ctx context.Context, details []DetailInput) (*Order, error) {
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	order := &Order{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if err := tx.InsertOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := addDetails(ctx, tx, order.ID, details); err != nil {
		return nil, err
	}
	if order.Details, err = tx.DetailsForOrder(ctx, order.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrder reconciles the submitted details against the stored ones:
// products new to the order are added, products it already carries get
// their quantity adjusted. Stored details absent from the submission are
// left untouched; DeleteDetail is the only removal path.
func (s *Service) UpdateOrder(ctx context.Context, orderID string, details []DetailInput) (*Order, error) {
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	order, err := tx.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	current := order.Details

	toAdd, toUpdate := partitionDetails(details, current)
	if err := addDetails(ctx, tx, order.ID, toAdd); err != nil {
		return nil, err
	}
	if err := updateDetails(ctx, tx, toUpdate, current); err != nil {
		return nil, err
	}

	if order.Details, err = tx.DetailsForOrder(ctx, order.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder returns every detail's quantity to its product, removes the
// details, then removes the order, all in one transaction.
func (s *Service) DeleteOrder(ctx context.Context, orderID string) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	order, err := tx.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for _, d := range order.Details {
		p, err := tx.LockProduct(ctx, d.ProductID)
		if err != nil {
			return err
		}
		if err := tx.SaveStock(ctx, p.ID, p.Stock+d.Quantity); err != nil {
			return err
		}
		if err := tx.DeleteDetail(ctx, d.ID); err != nil {
			return err
		}
	}
	if err := tx.DeleteOrder(ctx, order.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteDetail removes one line item and returns its quantity to stock.
// The parent order is not touched or locked.
func (s *Service) DeleteDetail(ctx context.Context, detailID string) (*OrderDetail, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	d, err := tx.GetDetail(ctx, detailID)
	if err != nil {
		return nil, err
	}
	p, err := tx.LockProduct(ctx, d.ProductID)
	if err != nil {
		return nil, err
	}
	if err := tx.SaveStock(ctx, p.ID, p.Stock+d.Quantity); err != nil {
		return nil, err
	}
	if err := tx.DeleteDetail(ctx, d.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// SetStock replaces a product's stock counter under its row lock.
func (s *Service) SetStock(ctx context.Context, productID string, stock int) error {
	if stock < 0 {
		return &ValidationError{Field: "stock", Msg: "must not be negative"}
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := tx.LockProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := tx.SaveStock(ctx, p.ID, stock); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*Product, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Msg: "must not be empty"}
	}
	if price.IsNegative() {
		return nil, &ValidationError{Field: "price", Msg: "must not be negative"}
	}
	if stock < 0 {
		return nil, &ValidationError{Field: "stock", Msg: "must not be negative"}
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p := &Product{ID: uuid.NewString(), Name: name, Price: price, Stock: stock}
	if err := tx.InsertProduct(ctx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product; details referencing it go with it.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.store.ListOrders(ctx)
}
