package istatuslogrepo

import (
	"context"

	"github.com/mallgrid/order/internal/service/models/statuslog"
)

// IStatusLogRepository is an interface for the order status audit log.
type IStatusLogRepository interface {
	Insert(ctx context.Context, change statuslog.StatusChange) error
	QueryByOrderID(ctx context.Context, orderID int64) ([]statuslog.StatusChange, error)
}
