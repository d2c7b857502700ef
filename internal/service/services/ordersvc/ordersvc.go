package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mallgrid/order/internal/dal/interfaces/iinventoryrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/iorderitemrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/iorderrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/ioutboxrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/istatuslogrepo"
	"github.com/mallgrid/order/internal/dal/postgres"
	"github.com/mallgrid/order/internal/dal/uow"
	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/service/models/currency"
	"github.com/mallgrid/order/internal/service/models/order"
	"github.com/mallgrid/order/internal/service/models/orderitem"
	"github.com/mallgrid/order/internal/service/models/outbox"
	"github.com/mallgrid/order/internal/service/models/payment"
	"github.com/mallgrid/order/internal/service/models/product"
	"github.com/mallgrid/order/internal/service/models/statuslog"
	"github.com/spf13/viper"
)

// OrderService coordinates order creation, status updates and deletion. It is
// the only entry point that mutates orders and stock, and it owns the
// transaction around every multi-step change.
type OrderService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	InventoryRepository() iinventoryrepo.IInventoryRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
	StatusLogRepository() istatuslogrepo.IStatusLogRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.newUOW == nil {
		s.newUOW = func() unitOfWork { return uow.NewUnitOfWork(s.pgClient) }
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithUnitOfWorkFactory overrides how units of work are produced. Used by
// tests to substitute in-memory repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// orderCreatedEvent is the payload staged in the outbox when an order commits.
type orderCreatedEvent struct {
	OrderID         int64  `json:"orderId"`
	CustomerID      int64  `json:"customerId"`
	StoreID         int64  `json:"storeId"`
	Status          string `json:"status"`
	TotalPriceCents int64  `json:"totalPriceCents"`
}

// orderStatusChangedEvent is staged when a status transition commits.
type orderStatusChangedEvent struct {
	OrderID    int64  `json:"orderId"`
	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
}

// CreateOrder creates one order with its items as a single transaction:
// header insert, per-item stock reservation in the caller-supplied item
// order, line item insert and the outbox event either all become visible at
// commit or none do. Validation runs before the transaction is opened.
func (s *OrderService) CreateOrder(ctx context.Context, o order.Order) (created order.Order, err error) {
	if err := validateCreate(&o); err != nil {
		return order.Order{}, err
	}

	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = work.Rollback(ctx)
		}
	}()

	o, err = work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	// Reservations run sequentially in the given item order; a second item
	// for the same product sees the quantity already decremented by the
	// first within this transaction.
	for i := range o.OrderItems {
		item := &o.OrderItems[i]
		if err = work.InventoryRepository().Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			return order.Order{}, err
		}
		item.OrderID = o.ID
		item.CreatedAt = now
	}

	o.OrderItems, err = work.OrderItemRepository().BulkInsert(ctx, o.OrderItems)
	if err != nil {
		return order.Order{}, err
	}

	if err = s.stageOrderCreated(ctx, work, &o, now); err != nil {
		return order.Order{}, err
	}

	if err = work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return o, nil
}

// UpdateStatus moves the order to a new status if the transition is allowed
// by the lifecycle. The current status is read under a row lock so two
// concurrent updates serialize. The inventory ledger is never touched here;
// in particular, cancellation does not restock.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	orderID int64,
	to order.Status,
) (updated order.Order, err error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = work.Rollback(ctx)
		}
	}()

	o, err := work.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return order.Order{}, err
	}

	if !o.Status.CanTransitionTo(to) {
		return order.Order{}, &errs.StatusTransitionError{
			From: o.Status.String(),
			To:   to.String(),
		}
	}

	if err = work.OrderRepository().UpdateStatus(ctx, orderID, to); err != nil {
		return order.Order{}, err
	}

	now := time.Now()
	err = work.StatusLogRepository().Insert(ctx, statuslog.StatusChange{
		OrderID:    orderID,
		FromStatus: o.Status,
		ToStatus:   to,
		CreatedAt:  now,
	})
	if err != nil {
		return order.Order{}, err
	}

	payload, err := json.Marshal(orderStatusChangedEvent{
		OrderID:    orderID,
		FromStatus: o.Status.String(),
		ToStatus:   to.String(),
	})
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to marshal status event: %w", err)
	}
	if err = work.OutboxRepository().Insert(ctx, newOutboxMessage(payload, now)); err != nil {
		return order.Order{}, err
	}

	if err = work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	o.Status = to
	o.UpdatedAt = now

	return o, nil
}

// DeleteOrder removes the order and its items in one transaction.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) (err error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = work.Rollback(ctx)
		}
	}()

	if err = work.OrderItemRepository().DeleteByOrderID(ctx, orderID); err != nil {
		return err
	}

	if err = work.OrderRepository().Delete(ctx, orderID); err != nil {
		return err
	}

	if err = work.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetOrder retrieves one order with its items.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (order.Order, error) {
	orders, err := s.GetOrders(ctx, order.QueryOrdersModel{Ids: []int64{orderID}})
	if err != nil {
		return order.Order{}, err
	}
	if len(orders) == 0 {
		return order.Order{}, errs.ErrOrderNotFound
	}

	return orders[0], nil
}

// GetOrders retrieves orders with their items based on the filter.
func (s *OrderService) GetOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	itemFilter := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemFilter.OrderIds = append(itemFilter.OrderIds, o.ID)
	}
	items, err := work.OrderItemRepository().Query(ctx, itemFilter)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// GetProduct retrieves one product with its current available quantity.
func (s *OrderService) GetProduct(ctx context.Context, productID int64) (product.Product, error) {
	work := s.newUOW()

	return work.InventoryRepository().Get(ctx, productID)
}

// RestockProduct increments a product's available quantity. This is the
// explicit product-management path; it is never invoked by order status
// transitions.
func (s *OrderService) RestockProduct(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return errs.Validation("restock quantity must be positive, got %d", quantity)
	}

	work := s.newUOW()

	return work.InventoryRepository().Restock(ctx, productID, quantity)
}

func (s *OrderService) stageOrderCreated(
	ctx context.Context,
	work unitOfWork,
	o *order.Order,
	now time.Time,
) error {
	payload, err := json.Marshal(orderCreatedEvent{
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		StoreID:         o.StoreID,
		Status:          o.Status.String(),
		TotalPriceCents: o.TotalPriceCents,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	return work.OutboxRepository().Insert(ctx, newOutboxMessage(payload, now))
}

func newOutboxMessage(payload []byte, now time.Time) outbox.Message {
	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 10
	}

	return outbox.Message{
		QueueName:    viper.GetString("rabbitmq.orders.queue"),
		ExchangeName: viper.GetString("rabbitmq.orders.exchange"),
		RoutingKey:   viper.GetString("rabbitmq.orders.routing_key"),
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   maxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}
}

func validateCreate(o *order.Order) error {
	if o.CustomerID <= 0 {
		return errs.Validation("customerId is required")
	}
	if o.CustomerName == "" {
		return errs.Validation("customerName is required")
	}
	if o.DeliveryAddress == "" {
		return errs.Validation("deliveryAddress is required")
	}
	if o.StoreID <= 0 {
		return errs.Validation("storeId is required")
	}
	if _, err := payment.ParseMethod(o.PaymentMethod.String()); err != nil {
		return errs.Validation("paymentMethod %q is not supported", o.PaymentMethod)
	}
	if _, err := order.ParseStatus(o.Status.String()); err != nil {
		return errs.Validation("status %q is not supported", o.Status)
	}
	if _, err := currency.ParseCurrency(o.TotalPriceCurrency.String()); err != nil {
		return errs.Validation("currency %q is not supported", o.TotalPriceCurrency)
	}
	if o.TotalPriceCents < 0 {
		return errs.Validation("totalPriceCents must not be negative")
	}
	if len(o.OrderItems) == 0 {
		return errs.Validation("order must contain at least one item")
	}
	for i, item := range o.OrderItems {
		if item.ProductID <= 0 {
			return errs.Validation("items[%d].productId is required", i)
		}
		if item.Quantity <= 0 {
			return errs.Validation("items[%d].quantity must be positive", i)
		}
		if item.PriceCents < 0 {
			return errs.Validation("items[%d].priceCents must not be negative", i)
		}
		if item.PriceCurrency != o.TotalPriceCurrency {
			return errs.Validation("items[%d].priceCurrency must match the order currency", i)
		}
	}
	if total := o.ItemsTotalCents(); total != o.TotalPriceCents {
		return errs.Validation(
			"totalPriceCents %d does not match the item sum %d",
			o.TotalPriceCents, total,
		)
	}

	return nil
}
