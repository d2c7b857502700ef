package ordersvc

import (
	"context"
	"sync"
	"time"

	"github.com/mallgrid/order/internal/dal/interfaces/iinventoryrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/iorderitemrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/iorderrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/ioutboxrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/istatuslogrepo"
	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/service/models/order"
	"github.com/mallgrid/order/internal/service/models/orderitem"
	"github.com/mallgrid/order/internal/service/models/outbox"
	"github.com/mallgrid/order/internal/service/models/product"
	"github.com/mallgrid/order/internal/service/models/statuslog"
)

// memStore is shared in-memory state behind the fake unit of work. The fake
// mirrors the database contract the service relies on: a transaction holds
// the store lock from Begin until Commit or Rollback, so concurrent
// transactions serialize, and Rollback restores the pre-transaction state.
type memStore struct {
	mu         sync.Mutex
	stock      map[int64]int
	orders     map[int64]order.Order
	items      []orderitem.OrderItem
	outbox     []outbox.Message
	statusLog  []statuslog.StatusChange
	nextOrder  int64
	nextItem   int64
	beginCalls int
}

func newMemStore() *memStore {
	return &memStore{
		stock:  map[int64]int{},
		orders: map[int64]order.Order{},
	}
}

func (s *memStore) snapshot() *memStore {
	snap := &memStore{
		stock:     make(map[int64]int, len(s.stock)),
		orders:    make(map[int64]order.Order, len(s.orders)),
		items:     append([]orderitem.OrderItem(nil), s.items...),
		outbox:    append([]outbox.Message(nil), s.outbox...),
		statusLog: append([]statuslog.StatusChange(nil), s.statusLog...),
		nextOrder: s.nextOrder,
		nextItem:  s.nextItem,
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}

	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.stock = snap.stock
	s.orders = snap.orders
	s.items = snap.items
	s.outbox = snap.outbox
	s.statusLog = snap.statusLog
	s.nextOrder = snap.nextOrder
	s.nextItem = snap.nextItem
}

type memUOW struct {
	store  *memStore
	snap   *memStore
	active bool
}

func newMemUOW(store *memStore) *memUOW {
	return &memUOW{store: store}
}

func (u *memUOW) Begin(_ context.Context) error {
	u.store.mu.Lock()
	u.store.beginCalls++
	u.snap = u.store.snapshot()
	u.active = true

	return nil
}

func (u *memUOW) Commit(_ context.Context) error {
	if !u.active {
		return nil
	}
	u.active = false
	u.snap = nil
	u.store.mu.Unlock()

	return nil
}

func (u *memUOW) Rollback(_ context.Context) error {
	if !u.active {
		return nil
	}
	u.store.restore(u.snap)
	u.active = false
	u.snap = nil
	u.store.mu.Unlock()

	return nil
}

func (u *memUOW) OrderRepository() iorderrepo.IOrderRepository {
	return &memOrderRepo{store: u.store}
}

func (u *memUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return &memOrderItemRepo{store: u.store}
}

func (u *memUOW) InventoryRepository() iinventoryrepo.IInventoryRepository {
	return &memInventoryRepo{store: u.store}
}

func (u *memUOW) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return &memOutboxRepo{store: u.store}
}

func (u *memUOW) StatusLogRepository() istatuslogrepo.IStatusLogRepository {
	return &memStatusLogRepo{store: u.store}
}

type memOrderRepo struct {
	store *memStore
}

func (r *memOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	r.store.nextOrder++
	o.ID = r.store.nextOrder
	header := o
	header.OrderItems = nil
	r.store.orders[o.ID] = header

	return o, nil
}

func (r *memOrderRepo) Query(
	_ context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	var result []order.Order
	for id := int64(1); id <= r.store.nextOrder; id++ {
		o, ok := r.store.orders[id]
		if !ok {
			continue
		}
		if len(filter.Ids) > 0 && !containsInt64(filter.Ids, o.ID) {
			continue
		}
		if len(filter.CustomerIds) > 0 && !containsInt64(filter.CustomerIds, o.CustomerID) {
			continue
		}
		if len(filter.StoreIds) > 0 && !containsInt64(filter.StoreIds, o.StoreID) {
			continue
		}
		o.OrderItems = []orderitem.OrderItem{}
		result = append(result, o)
	}

	return result, nil
}

func (r *memOrderRepo) GetForUpdate(_ context.Context, id int64) (order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return order.Order{}, errs.ErrOrderNotFound
	}

	return o, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id int64, status order.Status) error {
	o, ok := r.store.orders[id]
	if !ok {
		return errs.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.store.orders[id] = o

	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.orders[id]; !ok {
		return errs.ErrOrderNotFound
	}
	delete(r.store.orders, id)

	return nil
}

type memOrderItemRepo struct {
	store *memStore
}

func (r *memOrderItemRepo) BulkInsert(
	_ context.Context,
	orderItems []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	result := make([]orderitem.OrderItem, 0, len(orderItems))
	for _, oi := range orderItems {
		r.store.nextItem++
		oi.ID = r.store.nextItem
		r.store.items = append(r.store.items, oi)
		result = append(result, oi)
	}

	return result, nil
}

func (r *memOrderItemRepo) Query(
	_ context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	var result []orderitem.OrderItem
	for _, oi := range r.store.items {
		if len(filter.OrderIds) > 0 && !containsInt64(filter.OrderIds, oi.OrderID) {
			continue
		}
		if len(filter.ProductIds) > 0 && !containsInt64(filter.ProductIds, oi.ProductID) {
			continue
		}
		result = append(result, oi)
	}

	return result, nil
}

func (r *memOrderItemRepo) DeleteByOrderID(_ context.Context, orderID int64) error {
	var kept []orderitem.OrderItem
	for _, oi := range r.store.items {
		if oi.OrderID != orderID {
			kept = append(kept, oi)
		}
	}
	r.store.items = kept

	return nil
}

type memInventoryRepo struct {
	store *memStore
}

func (r *memInventoryRepo) Reserve(_ context.Context, productID int64, quantity int) error {
	available, ok := r.store.stock[productID]
	if !ok {
		return errs.ErrProductNotFound
	}
	if available < quantity {
		return &errs.InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: available,
		}
	}
	r.store.stock[productID] = available - quantity

	return nil
}

func (r *memInventoryRepo) Restock(_ context.Context, productID int64, quantity int) error {
	available, ok := r.store.stock[productID]
	if !ok {
		return errs.ErrProductNotFound
	}
	r.store.stock[productID] = available + quantity

	return nil
}

func (r *memInventoryRepo) GetQuantity(_ context.Context, productID int64) (int, error) {
	available, ok := r.store.stock[productID]
	if !ok {
		return 0, errs.ErrProductNotFound
	}

	return available, nil
}

func (r *memInventoryRepo) Get(_ context.Context, productID int64) (product.Product, error) {
	available, ok := r.store.stock[productID]
	if !ok {
		return product.Product{}, errs.ErrProductNotFound
	}

	return product.Product{ID: productID, Inventory: available}, nil
}

type memOutboxRepo struct {
	store *memStore
}

func (r *memOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	msg.ID = int64(len(r.store.outbox) + 1)
	r.store.outbox = append(r.store.outbox, msg)

	return nil
}

func (r *memOutboxRepo) GetPendingMessages(_ context.Context, limit int) ([]outbox.Message, error) {
	if limit > len(r.store.outbox) {
		limit = len(r.store.outbox)
	}

	return append([]outbox.Message(nil), r.store.outbox[:limit]...), nil
}

func (r *memOutboxRepo) Delete(_ context.Context, id int64) error {
	var kept []outbox.Message
	for _, msg := range r.store.outbox {
		if msg.ID != id {
			kept = append(kept, msg)
		}
	}
	r.store.outbox = kept

	return nil
}

func (r *memOutboxRepo) UpdateRetry(
	_ context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	for i := range r.store.outbox {
		if r.store.outbox[i].ID == id {
			r.store.outbox[i].RetryCount = retryCount
			r.store.outbox[i].LastError = lastError
			r.store.outbox[i].NextRetryAt = nextRetryAt
		}
	}

	return nil
}

type memStatusLogRepo struct {
	store *memStore
}

func (r *memStatusLogRepo) Insert(_ context.Context, change statuslog.StatusChange) error {
	change.ID = int64(len(r.store.statusLog) + 1)
	r.store.statusLog = append(r.store.statusLog, change)

	return nil
}

func (r *memStatusLogRepo) QueryByOrderID(
	_ context.Context,
	orderID int64,
) ([]statuslog.StatusChange, error) {
	var result []statuslog.StatusChange
	for _, change := range r.store.statusLog {
		if change.OrderID == orderID {
			result = append(result, change)
		}
	}

	return result, nil
}

func containsInt64(values []int64, v int64) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}

	return false
}
