package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/ariefcatur/go-storefront.git/internal/store"
)

// MockStore is an in-memory implementation of store.Store for testing the
// order engine. Begin snapshots the whole state; Commit swaps the
// snapshot in, Rollback discards it, which gives tests honest
// all-or-nothing semantics.
type MockStore struct {
	mu    sync.Mutex
	state *state

	// LockCalls records every product id locked, across all transactions.
	LockCalls []string
	BeginErr  error
}

var (
	_ store.Store = (*MockStore)(nil)
	_ store.Tx    = (*MockTx)(nil)
)

type state struct {
	products map[string]store.Product
	orders   map[string]store.Order // without details
	details  map[string]store.OrderDetail
	seq      map[string]int // detail id -> insertion order
	nextSeq  int
}

func newState() *state {
	return &state{
		products: make(map[string]store.Product),
		orders:   make(map[string]store.Order),
		details:  make(map[string]store.OrderDetail),
		seq:      make(map[string]int),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		v.Details = nil
		c.orders[k] = v
	}
	for k, v := range s.details {
		v.Product = nil
		c.details[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	c.nextSeq = s.nextSeq
	return c
}

func NewMockStore() *MockStore {
	return &MockStore{state: newState()}
}

// SeedProduct inserts a product outside any transaction.
func (m *MockStore) SeedProduct(p store.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.products[p.ID] = p
}

func (m *MockStore) Begin(ctx context.Context) (store.Tx, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &MockTx{parent: m, state: m.state.clone()}, nil
}

func (m *MockStore) GetProduct(ctx context.Context, id string) (*store.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return getProduct(m.state, id)
}

func (m *MockStore) ListProducts(ctx context.Context) ([]store.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return listProducts(m.state), nil
}

func (m *MockStore) GetOrder(ctx context.Context, id string) (*store.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return getOrder(m.state, id)
}

func (m *MockStore) ListOrders(ctx context.Context) ([]store.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return listOrders(m.state), nil
}

func (m *MockStore) GetDetail(ctx context.Context, id string) (*store.OrderDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return getDetail(m.state, id)
}

func (m *MockStore) DetailsForOrder(ctx context.Context, orderID string) ([]store.OrderDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return detailsForOrder(m.state, orderID), nil
}

// MockTx works against a private copy of the parent state.
type MockTx struct {
	parent *MockStore
	state  *state
	done   bool
}

func (t *MockTx) Commit(ctx context.Context) error {
	t.parent.mu.Lock()
	defer t.parent.mu.Unlock()
	t.parent.state = t.state
	t.done = true
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	t.done = true
	return nil
}

func (t *MockTx) LockProduct(ctx context.Context, id string) (*store.Product, error) {
	t.parent.mu.Lock()
	t.parent.LockCalls = append(t.parent.LockCalls, id)
	t.parent.mu.Unlock()
	return getProduct(t.state, id)
}

func (t *MockTx) SaveStock(ctx context.Context, productID string, stock int) error {
	p, ok := t.state.products[productID]
	if !ok {
		return store.ErrNotFound
	}
	p.Stock = stock
	t.state.products[productID] = p
	return nil
}

func (t *MockTx) InsertProduct(ctx context.Context, p *store.Product) error {
	t.state.products[p.ID] = *p
	return nil
}

func (t *MockTx) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := t.state.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.state.products, id)
	for did, d := range t.state.details {
		if d.ProductID == id {
			delete(t.state.details, did)
			delete(t.state.seq, did)
		}
	}
	return nil
}

func (t *MockTx) InsertOrder(ctx context.Context, o *store.Order) error {
	cp := *o
	cp.Details = nil
	t.state.orders[o.ID] = cp
	return nil
}

func (t *MockTx) DeleteOrder(ctx context.Context, id string) error {
	if _, ok := t.state.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.state.orders, id)
	for did, d := range t.state.details {
		if d.OrderID == id {
			delete(t.state.details, did)
			delete(t.state.seq, did)
		}
	}
	return nil
}

func (t *MockTx) InsertDetail(ctx context.Context, d *store.OrderDetail) error {
	cp := *d
	cp.Product = nil
	t.state.details[d.ID] = cp
	t.state.seq[d.ID] = t.state.nextSeq
	t.state.nextSeq++
	return nil
}

func (t *MockTx) SaveDetailQuantity(ctx context.Context, detailID string, quantity int) error {
	d, ok := t.state.details[detailID]
	if !ok {
		return store.ErrNotFound
	}
	d.Quantity = quantity
	t.state.details[detailID] = d
	return nil
}

func (t *MockTx) DeleteDetail(ctx context.Context, detailID string) error {
	if _, ok := t.state.details[detailID]; !ok {
		return store.ErrNotFound
	}
	delete(t.state.details, detailID)
	delete(t.state.seq, detailID)
	return nil
}

func (t *MockTx) GetProduct(ctx context.Context, id string) (*store.Product, error) {
	return getProduct(t.state, id)
}

func (t *MockTx) ListProducts(ctx context.Context) ([]store.Product, error) {
	return listProducts(t.state), nil
}

func (t *MockTx) GetOrder(ctx context.Context, id string) (*store.Order, error) {
	return getOrder(t.state, id)
}

func (t *MockTx) ListOrders(ctx context.Context) ([]store.Order, error) {
	return listOrders(t.state), nil
}

func (t *MockTx) GetDetail(ctx context.Context, id string) (*store.OrderDetail, error) {
	return getDetail(t.state, id)
}

func (t *MockTx) DetailsForOrder(ctx context.Context, orderID string) ([]store.OrderDetail, error) {
	return detailsForOrder(t.state, orderID), nil
}

func getProduct(st *state, id string) (*store.Product, error) {
	p, ok := st.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func listProducts(st *state) []store.Product {
	out := make([]store.Product, 0, len(st.products))
	for _, p := range st.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func getOrder(st *state, id string) (*store.Order, error) {
	o, ok := st.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o.Details = detailsForOrder(st, id)
	return &o, nil
}

func listOrders(st *state) []store.Order {
	out := make([]store.Order, 0, len(st.orders))
	for _, o := range st.orders {
		o.Details = detailsForOrder(st, o.ID)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func getDetail(st *state, id string) (*store.OrderDetail, error) {
	d, ok := st.details[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func detailsForOrder(st *state, orderID string) []store.OrderDetail {
	var out []store.OrderDetail
	for _, d := range st.details {
		if d.OrderID != orderID {
			continue
		}
		if p, ok := st.products[d.ProductID]; ok {
			cp := p
			d.Product = &cp
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return st.seq[out[i].ID] < st.seq[out[j].ID] })
	return out
}
