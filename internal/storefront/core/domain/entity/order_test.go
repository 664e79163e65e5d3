package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderSnapshotsLineTotals(t *testing.T) {
	cart := []CartItem{
		{ProductID: 1, Name: "Caldo Verde", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{ProductID: 2, Name: "Pudim", Quantity: 3, Price: decimal.RequireFromString("5.00")},
	}

	order := NewOrder("SS-TEST", PaymentPix, cart)

	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].TotalPrice.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, order.Items[1].TotalPrice.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("35.00")))
	assert.Equal(t, OrderPending, order.Status)
	assert.Equal(t, PaymentPending, order.PaymentStatus)

	cart[0].Price = decimal.RequireFromString("99")
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestCartTotalEmpty(t *testing.T) {
	assert.True(t, CartTotal(nil).IsZero())
	assert.Equal(t, 0, CartCount(nil))
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentPix.Valid())
	assert.True(t, PaymentBoleto.Valid())
	assert.False(t, PaymentMethod("card").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderPending, OrderPreparing, true},
		{OrderPreparing, OrderReady, true},
		{OrderReady, OrderDelivered, true},
		{OrderReady, OrderReady, true},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderPending, OrderDelivered, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestIntentDetailsKeepsOnlyMethodArtifacts(t *testing.T) {
	pix := PaymentIntent{ID: "PIX_1", Method: PaymentPix, PixQRCode: "qr", BoletoURL: "url", BoletoBarcode: "123"}
	d := pix.Details()
	assert.Equal(t, "qr", d.PixQRCode)
	assert.Empty(t, d.BoletoURL)
	assert.Empty(t, d.BoletoBarcode)

	boleto := PaymentIntent{ID: "BOL_1", Method: PaymentBoleto, PixQRCode: "qr", BoletoURL: "url", BoletoBarcode: "123"}
	d = boleto.Details()
	assert.Empty(t, d.PixQRCode)
	assert.Equal(t, "url", d.BoletoURL)
	assert.Equal(t, "123", d.BoletoBarcode)
}

func TestCustomerCheckoutValidation(t *testing.T) {
	c := Customer{FullName: "Ana Souza", Email: "ana@example.com"}
	err := c.ValidateForCheckout()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "phone, address")

	c.Phone, c.Address = "11 99999-0000", "Rua A, 1"
	require.NoError(t, c.ValidateForCheckout())

	first, last := Customer{FullName: "Ana Maria Souza"}.SplitName()
	assert.Equal(t, "Ana", first)
	assert.Equal(t, "Maria Souza", last)
}
