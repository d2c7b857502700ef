package getproduct

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/service/models/product"
	"github.com/mallgrid/order/internal/transport/http/respond"
)

type service interface {
	GetProduct(ctx context.Context, productID int64) (product.Product, error)
}

// GetProduct handles the single product read request.
func GetProduct(w http.ResponseWriter, r *http.Request, service service) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		respond.Error(w, errs.Validation("invalid product id"))

		return
	}

	p, err := service.GetProduct(r.Context(), productID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting product", "product_id", productID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, p)
}
