package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/service/models/order"
	"github.com/mallgrid/order/internal/transport/http/respond"
)

type service interface {
	UpdateStatus(ctx context.Context, orderID int64, to order.Status) (order.Order, error)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles the status transition request.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		respond.Error(w, errs.Validation("invalid order id"))

		return
	}

	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, errs.Validation("invalid request body: %v", err))
		slog.Error("Error decoding update status request", "error", err)

		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respond.Error(w, errs.Validation("status %q is not supported", req.Status))

		return
	}

	updated, err := service.UpdateStatus(r.Context(), orderID, status)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating order status", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}
