package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront.git/internal/store"
	"github.com/ariefcatur/go-storefront.git/internal/store/mocks"
)

func newTestService() (*store.Service, *mocks.MockStore) {
	ms := mocks.NewMockStore()
	return store.NewService(ms), ms
}

func seedProduct(ms *mocks.MockStore, name, price string, stock int) string {
	id := uuid.NewString()
	ms.SeedProduct(store.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	return id
}

func productStock(t *testing.T, ms *mocks.MockStore, id string) int {
	t.Helper()
	p, err := ms.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

// ============================================
// CreateOrder
// ============================================

func TestCreateOrder_DecrementsStockAndCreatesDetails(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)
	b := seedProduct(ms, "Mouse", "30.00", 10)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{
		{ProductID: a, Quantity: 3},
		{ProductID: b, Quantity: 5},
	})

	require.NoError(t, err)
	require.Len(t, order.Details, 2)
	assert.Equal(t, 7, productStock(t, ms, a))
	assert.Equal(t, 5, productStock(t, ms, b))
	assert.True(t, store.Total(order.Details).Equal(decimal.RequireFromString("300.00")),
		"total = %s", store.Total(order.Details))
	assert.False(t, order.CreatedAt.IsZero())
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 2)

	_, err := svc.CreateOrder(ctx, []store.DetailInput{{ProductID: a, Quantity: 5}})

	var stockErr *store.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, []string{"Keyboard"}, stockErr.Products)

	// Nothing persisted.
	assert.Equal(t, 2, productStock(t, ms, a))
	ordersList, err := ms.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, ordersList)
}

func TestCreateOrder_RollbackIsTotal(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)
	b := seedProduct(ms, "Mouse", "30.00", 1)

	_, err := svc.CreateOrder(ctx, []store.DetailInput{
		{ProductID: a, Quantity: 3}, // sufficient, decremented mid-pass
		{ProductID: b, Quantity: 5}, // short
	})

	var stockErr *store.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, []string{"Mouse"}, stockErr.Products)

	// The in-flight decrement of the sufficient product is rolled back too.
	assert.Equal(t, 10, productStock(t, ms, a))
	assert.Equal(t, 1, productStock(t, ms, b))
}

func TestCreateOrder_CollectsEveryShortProduct(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 1)
	b := seedProduct(ms, "Mouse", "30.00", 1)

	_, err := svc.CreateOrder(ctx, []store.DetailInput{
		{ProductID: a, Quantity: 5},
		{ProductID: b, Quantity: 5},
	})

	var stockErr *store.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, []string{"Keyboard", "Mouse"}, stockErr.Products)
}

func TestCreateOrder_DuplicateProduct(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)

	_, err := svc.CreateOrder(ctx, []store.DetailInput{
		{ProductID: a, Quantity: 1},
		{ProductID: a, Quantity: 2},
	})

	var dupErr *store.DuplicateProductError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, []string{a}, dupErr.ProductIDs)

	// Detected before any mutation: the ledger was never consulted.
	assert.Empty(t, ms.LockCalls)
	assert.Equal(t, 10, productStock(t, ms, a))
}

func TestCreateOrder_QuantityBelowOne(t *testing.T) {
	svc, ms := newTestService()
	a := seedProduct(ms, "Keyboard", "50.00", 10)

	_, err := svc.CreateOrder(context.Background(), []store.DetailInput{{ProductID: a, Quantity: 0}})

	var valErr *store.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "quantity", valErr.Field)
}

func TestCreateOrder_EmptyDetails(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(), nil)

	var valErr *store.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "details", valErr.Field)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(),
		[]store.DetailInput{{ProductID: uuid.NewString(), Quantity: 1}})

	assert.ErrorIs(t, err, store.ErrNotFound)
}

// ============================================
// UpdateOrder
// ============================================

func TestUpdateOrder_ShrinkReturnsStock(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{{ProductID: a, Quantity: 3}})
	require.NoError(t, err)
	require.Equal(t, 7, productStock(t, ms, a))

	updated, err := svc.UpdateOrder(ctx, order.ID, []store.DetailInput{{ProductID: a, Quantity: 1}})

	require.NoError(t, err)
	assert.Equal(t, 9, productStock(t, ms, a))
	require.Len(t, updated.Details, 1)
	assert.Equal(t, 1, updated.Details[0].Quantity)
}

func TestUpdateOrder_GrowConsumesStock(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{{ProductID: a, Quantity: 1}})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, order.ID, []store.DetailInput{{ProductID: a, Quantity: 4}})

	require.NoError(t, err)
	assert.Equal(t, 6, productStock(t, ms, a))
	assert.Equal(t, 4, updated.Details[0].Quantity)
}

func TestUpdateOrder_SameQuantityLeavesStockAlone(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{{ProductID: a, Quantity: 3}})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, order.ID, []store.DetailInput{{ProductID: a, Quantity: 3}})

	require.NoError(t, err)
	assert.Equal(t, 7, productStock(t, ms, a))
	assert.Equal(t, 3, updated.Details[0].Quantity)
}

func TestUpdateOrder_AddsNewProducts(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)
	b := seedProduct(ms, "Mouse", "30.00", 10)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{{ProductID: a, Quantity: 2}})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, order.ID, []store.DetailInput{
		{ProductID: a, Quantity: 5},
		{ProductID: b, Quantity: 4},
	})

	require.NoError(t, err)
	require.Len(t, updated.Details, 2)
	assert.Equal(t, 5, productStock(t, ms, a))
	assert.Equal(t, 6, productStock(t, ms, b))
}

func TestUpdateOrder_OmittedDetailUntouched(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)
	b := seedProduct(ms, "Mouse", "30.00", 10)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{
		{ProductID: a, Quantity: 2},
		{ProductID: b, Quantity: 2},
	})
	require.NoError(t, err)

	// Submission only mentions A; B's detail must survive unchanged.
	updated, err := svc.UpdateOrder(ctx, order.ID, []store.DetailInput{{ProductID: a, Quantity: 3}})

	require.NoError(t, err)
	require.Len(t, updated.Details, 2)
	assert.Equal(t, 8, productStock(t, ms, b))
	for _, d := range updated.Details {
		if d.ProductID == b {
			assert.Equal(t, 2, d.Quantity)
		}
	}
}

func TestUpdateOrder_InsufficientGrowthRollsBack(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 5)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{{ProductID: a, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, 3, productStock(t, ms, a))

	// Needs 8 more units, only 3 left.
	_, err = svc.UpdateOrder(ctx, order.ID, []store.DetailInput{{ProductID: a, Quantity: 10}})

	var stockErr *store.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, []string{"Keyboard"}, stockErr.Products)

	// Neither stock nor quantity changed.
	assert.Equal(t, 3, productStock(t, ms, a))
	got, err := ms.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Details[0].Quantity)
}

func TestUpdateOrder_UnknownOrder(t *testing.T) {
	svc, ms := newTestService()
	a := seedProduct(ms, "Keyboard", "50.00", 10)

	_, err := svc.UpdateOrder(context.Background(), uuid.NewString(),
		[]store.DetailInput{{ProductID: a, Quantity: 1}})

	assert.ErrorIs(t, err, store.ErrNotFound)
}

// ============================================
// DeleteOrder / DeleteDetail
// ============================================

func TestDeleteOrder_RestoresStock(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)
	b := seedProduct(ms, "Mouse", "30.00", 10)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{
		{ProductID: a, Quantity: 3},
		{ProductID: b, Quantity: 5},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))

	assert.Equal(t, 10, productStock(t, ms, a))
	assert.Equal(t, 10, productStock(t, ms, b))
	_, err = ms.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	details, err := ms.DetailsForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestDeleteOrder_UnknownOrder(t *testing.T) {
	svc, _ := newTestService()

	err := svc.DeleteOrder(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteDetail_RestoresStockAndKeepsOrder(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)
	b := seedProduct(ms, "Mouse", "30.00", 10)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{
		{ProductID: a, Quantity: 3},
		{ProductID: b, Quantity: 5},
	})
	require.NoError(t, err)

	var detailA store.OrderDetail
	for _, d := range order.Details {
		if d.ProductID == a {
			detailA = d
		}
	}

	deleted, err := svc.DeleteDetail(ctx, detailA.ID)

	require.NoError(t, err)
	assert.Equal(t, a, deleted.ProductID)
	assert.Equal(t, 10, productStock(t, ms, a))
	assert.Equal(t, 5, productStock(t, ms, b))

	got, err := ms.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Details, 1)
	assert.Equal(t, b, got.Details[0].ProductID)
}

func TestDeleteDetail_UnknownDetail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.DeleteDetail(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, store.ErrNotFound)
}

// ============================================
// Products
// ============================================

func TestSetStock(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)

	require.NoError(t, svc.SetStock(ctx, a, 42))
	assert.Equal(t, 42, productStock(t, ms, a))
}

func TestSetStock_NegativeRejected(t *testing.T) {
	svc, ms := newTestService()
	a := seedProduct(ms, "Keyboard", "50.00", 10)

	err := svc.SetStock(context.Background(), a, -1)

	var valErr *store.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 10, productStock(t, ms, a))
}

func TestSetStock_UnknownProduct(t *testing.T) {
	svc, _ := newTestService()

	err := svc.SetStock(context.Background(), uuid.NewString(), 5)

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateProduct(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, "Keyboard", decimal.RequireFromString("50.00"), 10)

	require.NoError(t, err)
	got, err := ms.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", got.Name)
	assert.Equal(t, 10, got.Stock)
}

func TestCreateProduct_Invalid(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		product string
		price   string
		stock   int
	}{
		{"empty name", "", "1.00", 0},
		{"negative price", "Keyboard", "-1.00", 0},
		{"negative stock", "Keyboard", "1.00", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tt.product, decimal.RequireFromString(tt.price), tt.stock)
			var valErr *store.ValidationError
			assert.ErrorAs(t, err, &valErr)
		})
	}
}

func TestDeleteProduct_CascadesDetails(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()
	a := seedProduct(ms, "Keyboard", "50.00", 10)

	order, err := svc.CreateOrder(ctx, []store.DetailInput{{ProductID: a, Quantity: 2}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, a))

	details, err := ms.DetailsForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, details)
}
