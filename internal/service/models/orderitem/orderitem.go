package orderitem

import (
	"time"

	"github.com/mallgrid/order/internal/service/models/currency"
)

// OrderItem represents one product line within an order. Title and price are
// captured at order time and never follow later product changes.
type OrderItem struct {
	ID            int64             `json:"id"`
	OrderID       int64             `json:"orderId"`
	ProductID     int64             `json:"productId"`
	ProductTitle  string            `json:"productTitle"`
	Quantity      int               `json:"quantity"`
	PriceCents    int64             `json:"priceCents"`
	PriceCurrency currency.Currency `json:"priceCurrency"`
	CreatedAt     time.Time         `json:"createdAt"`
}
