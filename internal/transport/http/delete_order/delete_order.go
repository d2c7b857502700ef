package deleteorder

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/transport/http/respond"
)

type service interface {
	DeleteOrder(ctx context.Context, orderID int64) error
}

// DeleteOrder handles the cascading order delete request.
func DeleteOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		respond.Error(w, errs.Validation("invalid order id"))

		return
	}

	if err := service.DeleteOrder(r.Context(), orderID); err != nil {
		respond.Error(w, err)
		slog.Error("Error deleting order", "order_id", orderID, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
