package iinventoryrepo

import (
	"context"

	"github.com/mallgrid/order/internal/service/models/product"
)

// IInventoryRepository is the ledger of available product quantities. All
// stock mutation in the service goes through Reserve and Restock.
type IInventoryRepository interface {
	// Reserve atomically decrements the product's available quantity if and
	// only if at least the requested quantity is available. It returns
	// errs.ErrProductNotFound for an unknown product and
	// *errs.InsufficientStockError when stock cannot cover the request; in
	// both cases nothing was mutated.
	Reserve(ctx context.Context, productID int64, quantity int) error

	// Restock increments the product's available quantity.
	Restock(ctx context.Context, productID int64, quantity int) error

	GetQuantity(ctx context.Context, productID int64) (int, error)

	Get(ctx context.Context, productID int64) (product.Product, error)
}
