package statuslog

import (
	"time"

	"github.com/mallgrid/order/internal/service/models/order"
)

// StatusChange is one audit record of an order status transition.
type StatusChange struct {
	ID         int64        `json:"id"`
	OrderID    int64        `json:"orderId"`
	FromStatus order.Status `json:"fromStatus"`
	ToStatus   order.Status `json:"toStatus"`
	CreatedAt  time.Time    `json:"createdAt"`
}
