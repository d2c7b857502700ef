package ordersvc

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/service/models/currency"
	"github.com/mallgrid/order/internal/service/models/order"
	"github.com/mallgrid/order/internal/service/models/orderitem"
	"github.com/mallgrid/order/internal/service/models/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store *memStore) *OrderService {
	return MustNewOrderService(
		WithUnitOfWorkFactory(func() unitOfWork { return newMemUOW(store) }),
	)
}

func validOrder(items ...orderitem.OrderItem) order.Order {
	o := order.Order{
		CustomerID:         7,
		CustomerName:       "Jamie Reyes",
		DeliveryAddress:    "12 Arcade Row",
		PaymentMethod:      payment.MethodCard,
		Status:             order.StatusPending,
		StoreID:            3,
		TotalPriceCurrency: currency.CurrencyUSD,
		OrderItems:         items,
	}
	for _, item := range items {
		o.TotalPriceCents += int64(item.Quantity) * item.PriceCents
	}

	return o
}

func item(productID int64, quantity int, priceCents int64) orderitem.OrderItem {
	return orderitem.OrderItem{
		ProductID:     productID,
		ProductTitle:  "Widget",
		Quantity:      quantity,
		PriceCents:    priceCents,
		PriceCurrency: currency.CurrencyUSD,
	}
}

func TestCreateOrderReservesStock(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 5
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), validOrder(item(1, 3, 100)))
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, int64(300), created.TotalPriceCents)
	assert.Equal(t, 2, store.stock[1])
	assert.Len(t, store.orders, 1)
	require.Len(t, store.items, 1)
	assert.Equal(t, created.ID, store.items[0].OrderID)
	assert.Len(t, store.outbox, 1)
}

func TestCreateOrderInsufficientStockRollsBackEverything(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 2
	svc := newTestService(store)

	_, err := svc.CreateOrder(context.Background(), validOrder(item(1, 3, 100)))

	var stockErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(1), stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	assert.Equal(t, 2, store.stock[1], "stock must be untouched after rollback")
	assert.Empty(t, store.orders, "no order header may survive rollback")
	assert.Empty(t, store.items)
	assert.Empty(t, store.outbox)
}

func TestCreateOrderCumulativeSameProductReservations(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 5
	svc := newTestService(store)

	// Two lines for the same product: 2 succeeds, then 4 sees only 3 left.
	_, err := svc.CreateOrder(context.Background(), validOrder(item(1, 2, 100), item(1, 4, 100)))

	var stockErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)

	assert.Equal(t, 5, store.stock[1], "first reservation must be rolled back too")
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.CreateOrder(context.Background(), validOrder(item(42, 1, 100)))
	require.ErrorIs(t, err, errs.ErrProductNotFound)
	assert.Empty(t, store.orders)
}

func TestCreateOrderValidationRunsBeforeTransaction(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 5
	svc := newTestService(store)

	tests := []struct {
		name   string
		mutate func(*order.Order)
	}{
		{"missing customer", func(o *order.Order) { o.CustomerID = 0 }},
		{"missing name", func(o *order.Order) { o.CustomerName = "" }},
		{"missing address", func(o *order.Order) { o.DeliveryAddress = "" }},
		{"missing store", func(o *order.Order) { o.StoreID = 0 }},
		{"bad payment method", func(o *order.Order) { o.PaymentMethod = "barter" }},
		{"no items", func(o *order.Order) { o.OrderItems = nil }},
		{"zero quantity", func(o *order.Order) { o.OrderItems[0].Quantity = 0 }},
		{"negative price", func(o *order.Order) { o.OrderItems[0].PriceCents = -1 }},
		{"total mismatch", func(o *order.Order) { o.TotalPriceCents += 50 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder(item(1, 2, 100))
			tt.mutate(&o)

			_, err := svc.CreateOrder(context.Background(), o)

			var validationErr *errs.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Zero(t, store.beginCalls, "no transaction may be opened for invalid input")
			assert.Equal(t, 5, store.stock[1])
		})
	}
}

func TestCreateOrderContentionOnLastUnit(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 1
	svc := newTestService(store)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.CreateOrder(context.Background(), validOrder(item(1, 1, 100)))
		}(i)
	}
	wg.Wait()

	var stockErrs, successes int
	for _, err := range results {
		if err == nil {
			successes++

			continue
		}
		var stockErr *errs.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		stockErrs++
	}

	assert.Equal(t, 1, successes, "exactly one order may win the last unit")
	assert.Equal(t, 1, stockErrs)
	assert.Equal(t, 0, store.stock[1])
	assert.Len(t, store.orders, 1)
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 5
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), validOrder(item(1, 3, 100)))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, order.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, updated.Status)
	assert.Equal(t, 2, store.stock[1], "status transitions must not touch the ledger")

	require.Len(t, store.statusLog, 1)
	assert.Equal(t, order.StatusPending, store.statusLog[0].FromStatus)
	assert.Equal(t, order.StatusCompleted, store.statusLog[0].ToStatus)

	_, err = svc.UpdateStatus(context.Background(), created.ID, order.StatusCancelled)
	var transitionErr *errs.StatusTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Len(t, store.statusLog, 1, "rejected transition must not be logged")
}

func TestUpdateStatusCancellationDoesNotRestock(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 5
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), validOrder(item(1, 3, 100)))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, order.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 2, store.stock[1])
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.UpdateStatus(context.Background(), 999, order.StatusCompleted)
	require.ErrorIs(t, err, errs.ErrOrderNotFound)
}

func TestDeleteOrderCascades(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 5
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), validOrder(item(1, 2, 100)))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), created.ID))
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)

	err = svc.DeleteOrder(context.Background(), created.ID)
	require.ErrorIs(t, err, errs.ErrOrderNotFound)
}

func TestGetOrderRepeatedReadsAreIdentical(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 5
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), validOrder(item(1, 2, 100), item(1, 1, 250)))
	require.NoError(t, err)

	first, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	second, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.OrderItems, 2)
	assert.Equal(t, first.TotalPriceCents, first.ItemsTotalCents())
}

func TestGetOrderNotFound(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.GetOrder(context.Background(), 12345)
	require.ErrorIs(t, err, errs.ErrOrderNotFound)
}

func TestGetOrdersFiltersByStore(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 10
	svc := newTestService(store)

	first := validOrder(item(1, 1, 100))
	second := validOrder(item(1, 1, 100))
	second.StoreID = 99

	_, err := svc.CreateOrder(context.Background(), first)
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), second)
	require.NoError(t, err)

	orders, err := svc.GetOrders(context.Background(), order.QueryOrdersModel{StoreIds: []int64{99}})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(99), orders[0].StoreID)
}

func TestRestockProduct(t *testing.T) {
	store := newMemStore()
	store.stock[1] = 2
	svc := newTestService(store)

	require.NoError(t, svc.RestockProduct(context.Background(), 1, 3))
	assert.Equal(t, 5, store.stock[1])

	p, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Inventory)

	err = svc.RestockProduct(context.Background(), 1, 0)
	var validationErr *errs.ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = svc.RestockProduct(context.Background(), 42, 3)
	require.True(t, errors.Is(err, errs.ErrProductNotFound))
}
