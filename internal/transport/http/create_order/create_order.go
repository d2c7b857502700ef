package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/service/models/currency"
	"github.com/mallgrid/order/internal/service/models/order"
	"github.com/mallgrid/order/internal/service/models/orderitem"
	"github.com/mallgrid/order/internal/service/models/payment"
	"github.com/mallgrid/order/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	ProductID     int64  `json:"productId"     validate:"gt=0"`
	ProductTitle  string `json:"productTitle"  validate:"required"`
	Quantity      int    `json:"quantity"      validate:"gt=0"`
	PriceCents    int64  `json:"priceCents"    validate:"gte=0"`
	PriceCurrency string `json:"priceCurrency" validate:"required"`
}

// toModel converts itemInCreateOrderRequest to orderitem.OrderItem.
func (r *itemInCreateOrderRequest) toModel() (*orderitem.OrderItem, error) {
	cur, err := currency.ParseCurrency(r.PriceCurrency)
	if err != nil {
		return nil, err
	}

	return &orderitem.OrderItem{
		ProductID:     r.ProductID,
		ProductTitle:  r.ProductTitle,
		Quantity:      r.Quantity,
		PriceCents:    r.PriceCents,
		PriceCurrency: cur,
	}, nil
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	CustomerID         int64                      `json:"customerId"         validate:"gt=0"`
	CustomerName       string                     `json:"customerName"       validate:"required"`
	DeliveryAddress    string                     `json:"deliveryAddress"    validate:"required"`
	PaymentMethod      string                     `json:"paymentMethod"      validate:"required"`
	StoreID            int64                      `json:"storeId"            validate:"gt=0"`
	TotalPriceCents    int64                      `json:"totalPriceCents"    validate:"gte=0"`
	TotalPriceCurrency string                     `json:"totalPriceCurrency" validate:"required"`
	OrderItems         []itemInCreateOrderRequest `json:"orderItems"         validate:"required,min=1,dive"`
}

// toModel converts createOrderRequest to order.Order. New orders always
// start in the pending status.
func (r *createOrderRequest) toModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(r.TotalPriceCurrency)
	if err != nil {
		return nil, err
	}
	method, err := payment.ParseMethod(r.PaymentMethod)
	if err != nil {
		return nil, err
	}

	items := make([]orderitem.OrderItem, len(r.OrderItems))
	for i := range r.OrderItems {
		item, err := r.OrderItems[i].toModel()
		if err != nil {
			return nil, err
		}
		items[i] = *item
	}

	return &order.Order{
		CustomerID:         r.CustomerID,
		CustomerName:       r.CustomerName,
		DeliveryAddress:    r.DeliveryAddress,
		PaymentMethod:      method,
		Status:             order.StatusPending,
		StoreID:            r.StoreID,
		TotalPriceCents:    r.TotalPriceCents,
		TotalPriceCurrency: cur,
		OrderItems:         items,
	}, nil
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// createOrderResponse is the success envelope with the new order id.
type createOrderResponse struct {
	OrderID int64       `json:"orderId"`
	Order   order.Order `json:"order"`
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, errs.Validation("invalid request body: %v", err))
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		respond.Error(w, errs.Validation("%v", err))
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	model, err := req.toModel()
	if err != nil {
		respond.Error(w, errs.Validation("%v", err))
		slog.Error("Error converting create order request to model", "error", err)

		return
	}

	created, err := service.CreateOrder(r.Context(), *model)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error creating order", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, createOrderResponse{
		OrderID: created.ID,
		Order:   created,
	})
}
