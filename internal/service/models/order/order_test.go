package order

import (
	"testing"

	"github.com/mallgrid/order/internal/service/models/orderitem"
	"github.com/stretchr/testify/assert"
)

func TestItemsTotalCents(t *testing.T) {
	o := Order{
		OrderItems: []orderitem.OrderItem{
			{Quantity: 2, PriceCents: 1050},
			{Quantity: 3, PriceCents: 200},
		},
	}

	assert.Equal(t, int64(2700), o.ItemsTotalCents())
}

func TestItemsTotalCentsEmpty(t *testing.T) {
	o := Order{}

	assert.Zero(t, o.ItemsTotalCents())
}
