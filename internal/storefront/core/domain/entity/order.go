package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentBoleto PaymentMethod = "boleto"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentPix || m == PaymentBoleto
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentInProcess PaymentStatus = "in_process"
	PaymentApproved  PaymentStatus = "approved"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentExpired   PaymentStatus = "expired"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentInProcess, PaymentApproved, PaymentRejected, PaymentCancelled, PaymentExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further provider transition is expected.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentApproved, PaymentRejected, PaymentCancelled, PaymentExpired:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderPreparing, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderDelivered, OrderCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s. Setting the same
// status again is allowed so repeated admin updates are harmless.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, candidate := range orderTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Notifies reports whether customers hear about a move into this status.
func (s OrderStatus) Notifies() bool {
	switch s {
	case OrderPreparing, OrderReady, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            int64
	CustomerID    int64
	OrderNumber   string
	TotalAmount   decimal.Decimal
	Status        OrderStatus
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Payment       PaymentDetails
	Items         []OrderItem
	Customer      *Customer
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PaymentDetails is the provider metadata persisted after checkout. Only the
// artifacts belonging to the order's method are ever set.
type PaymentDetails struct {
	ID            string
	PixQRCode     string
	BoletoURL     string
	BoletoBarcode string
	ExpiresAt     time.Time
}

type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	ImageURL    string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrder snapshots the cart into a pending order. Unit prices are copied
// from the cart so later catalog changes never reach this order.
func NewOrder(number string, method PaymentMethod, cart []CartItem) *Order {
	items := make([]OrderItem, 0, len(cart))
	total := decimal.Zero
	for _, ci := range cart {
		it := OrderItem{
			ProductID:   ci.ProductID,
			ProductName: ci.Name,
			ImageURL:    ci.ImageURL,
			Quantity:    ci.Quantity,
			UnitPrice:   ci.Price,
		}
		it.TotalPrice = it.Subtotal()
		total = total.Add(it.TotalPrice)
		items = append(items, it)
	}
	return &Order{
		OrderNumber:   number,
		TotalAmount:   total,
		Status:        OrderPending,
		PaymentMethod: method,
		PaymentStatus: PaymentPending,
		Items:         items,
	}
}
