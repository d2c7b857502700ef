package getorder

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/service/models/order"
	"github.com/mallgrid/order/internal/transport/http/respond"
)

type service interface {
	GetOrder(ctx context.Context, orderID int64) (order.Order, error)
}

// GetOrder handles the single order read request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		respond.Error(w, errs.Validation("invalid order id"))

		return
	}

	o, err := service.GetOrder(r.Context(), orderID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}
