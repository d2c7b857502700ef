package order

import (
	"time"

	"github.com/mallgrid/order/internal/service/models/currency"
	"github.com/mallgrid/order/internal/service/models/orderitem"
	"github.com/mallgrid/order/internal/service/models/payment"
)

// Order represents a customer order in the system.
type Order struct {
	ID                 int64                 `json:"id"`
	CustomerID         int64                 `json:"customerId"`
	CustomerName       string                `json:"customerName"`
	DeliveryAddress    string                `json:"deliveryAddress"`
	PaymentMethod      payment.Method        `json:"paymentMethod"`
	Status             Status                `json:"status"`
	StoreID            int64                 `json:"storeId"`
	TotalPriceCents    int64                 `json:"totalPriceCents"`
	TotalPriceCurrency currency.Currency     `json:"totalPriceCurrency"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
	OrderItems         []orderitem.OrderItem `json:"orderItems"`
}

// ItemsTotalCents sums quantity * unit price over the order's items.
func (o *Order) ItemsTotalCents() int64 {
	var total int64
	for _, item := range o.OrderItems {
		total += int64(item.Quantity) * item.PriceCents
	}

	return total
}
