package iorderrepo

import (
	"context"

	"github.com/mallgrid/order/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)

	// GetForUpdate reads one order and locks its row for the rest of the
	// transaction.
	GetForUpdate(ctx context.Context, id int64) (order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status) error
	Delete(ctx context.Context, id int64) error
}
