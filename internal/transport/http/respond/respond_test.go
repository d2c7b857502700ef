package respond

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mallgrid/order/internal/service/errs"
	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", errs.Validation("customerId is required"), http.StatusBadRequest},
		{"insufficient stock", &errs.InsufficientStockError{ProductID: 5, Requested: 2, Available: 1}, http.StatusConflict},
		{"status transition", &errs.StatusTransitionError{From: "completed", To: "pending"}, http.StatusConflict},
		{"order not found", errs.ErrOrderNotFound, http.StatusNotFound},
		{"product not found", errs.ErrProductNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", errs.ErrOrderNotFound), http.StatusNotFound},
		{"persistence", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
