package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mallgrid/order/internal/service/errs"
)

type errorEnvelope struct {
	Error     string `json:"error"`
	ProductID int64  `json:"productId,omitempty"`
}

// JSON writes the value as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// Error maps a service error onto the HTTP error envelope. Validation maps
// to 400, missing entities to 404, stock and status conflicts to 409 and
// anything else is treated as a persistence failure.
func Error(w http.ResponseWriter, err error) {
	var validationErr *errs.ValidationError
	var stockErr *errs.InsufficientStockError
	var transitionErr *errs.StatusTransitionError

	switch {
	case errors.As(err, &validationErr):
		JSON(w, http.StatusBadRequest, errorEnvelope{Error: validationErr.Error()})
	case errors.As(err, &stockErr):
		JSON(w, http.StatusConflict, errorEnvelope{
			Error:     stockErr.Error(),
			ProductID: stockErr.ProductID,
		})
	case errors.As(err, &transitionErr):
		JSON(w, http.StatusConflict, errorEnvelope{Error: transitionErr.Error()})
	case errors.Is(err, errs.ErrOrderNotFound), errors.Is(err, errs.ErrProductNotFound):
		JSON(w, http.StatusNotFound, errorEnvelope{Error: err.Error()})
	default:
		JSON(w, http.StatusInternalServerError, errorEnvelope{Error: "internal error"})
	}
}
