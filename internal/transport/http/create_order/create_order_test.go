package createorder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	created order.Order
	err     error
	called  bool
}

func (f *fakeService) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	f.called = true
	if f.err != nil {
		return order.Order{}, f.err
	}
	o.ID = f.created.ID

	return o, nil
}

const validBody = `{
	"customerId": 7,
	"customerName": "Jamie Reyes",
	"deliveryAddress": "12 Arcade Row",
	"paymentMethod": "card",
	"storeId": 3,
	"totalPriceCents": 300,
	"totalPriceCurrency": "USD",
	"orderItems": [
		{"productId": 1, "productTitle": "Widget", "quantity": 3, "priceCents": 100, "priceCurrency": "USD"}
	]
}`

func TestCreateOrderSuccess(t *testing.T) {
	svc := &fakeService{created: order.Order{ID: 41}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(validBody))

	CreateOrder(rec, req, svc)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		OrderID int64 `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(41), resp.OrderID)
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()
	body := strings.Replace(validBody, `"deliveryAddress": "12 Arcade Row",`, "", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))

	CreateOrder(rec, req, svc)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, svc.called, "invalid requests must not reach the service")
}

func TestCreateOrderRejectsUnknownCurrency(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()
	body := strings.ReplaceAll(validBody, "USD", "XTS")
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))

	CreateOrder(rec, req, svc)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, svc.called)
}

func TestCreateOrderMapsInsufficientStock(t *testing.T) {
	svc := &fakeService{err: &errs.InsufficientStockError{ProductID: 1, Requested: 3, Available: 2}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(validBody))

	CreateOrder(rec, req, svc)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error     string `json:"error"`
		ProductID int64  `json:"productId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ProductID)
	assert.Contains(t, resp.Error, "insufficient stock")
}

func TestCreateOrderMapsUnknownProduct(t *testing.T) {
	svc := &fakeService{err: errs.ErrProductNotFound}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(validBody))

	CreateOrder(rec, req, svc)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
