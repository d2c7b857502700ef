package product

import (
	"time"

	"github.com/mallgrid/order/internal/service/models/currency"
)

// Product is the inventory record for a store product. Inventory is the
// authoritative available quantity and is never negative.
type Product struct {
	ID            int64             `json:"id"`
	StoreID       int64             `json:"storeId"`
	Title         string            `json:"title"`
	Inventory     int               `json:"inventory"`
	PriceCents    int64             `json:"priceCents"`
	PriceCurrency currency.Currency `json:"priceCurrency"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
