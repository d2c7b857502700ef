package restockproduct

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/transport/http/respond"
)

type service interface {
	RestockProduct(ctx context.Context, productID int64, quantity int) error
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

// RestockProduct handles the product restock request.
func RestockProduct(w http.ResponseWriter, r *http.Request, service service) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		respond.Error(w, errs.Validation("invalid product id"))

		return
	}

	req := restockRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, errs.Validation("invalid request body: %v", err))
		slog.Error("Error decoding restock request", "error", err)

		return
	}

	if err := service.RestockProduct(r.Context(), productID, req.Quantity); err != nil {
		respond.Error(w, err)
		slog.Error("Error restocking product", "product_id", productID, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
