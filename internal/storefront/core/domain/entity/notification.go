package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type NotificationKind string

const (
	NotifyOrderConfirmation NotificationKind = "order.confirmation"
	NotifyStatusUpdate      NotificationKind = "order.status_updated"
)

// Notification is the structured payload handed to notifiers. It carries
// everything a template needs so notifiers never read the store.
type Notification struct {
	Kind          NotificationKind `json:"kind"`
	OrderID       int64            `json:"order_id"`
	OrderNumber   string           `json:"order_number"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	PaymentMethod PaymentMethod    `json:"payment_method"`
	Status        string           `json:"status,omitempty"`
	PixQRCode     string           `json:"pix_qr_code,omitempty"`
	BoletoURL     string           `json:"boleto_url,omitempty"`
	Items         []NotifiedItem   `json:"items,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

type NotifiedItem struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewNotification builds a payload from an order that has its customer loaded.
func NewNotification(kind NotificationKind, o *Order, status string) Notification {
	n := Notification{
		Kind:          kind,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		Status:        status,
		PixQRCode:     o.Payment.PixQRCode,
		BoletoURL:     o.Payment.BoletoURL,
		OccurredAt:    time.Now().UTC(),
	}
	if o.Customer != nil {
		n.CustomerName = o.Customer.FullName
		n.CustomerEmail = o.Customer.Email
	}
	for _, it := range o.Items {
		n.Items = append(n.Items, NotifiedItem{Name: it.ProductName, Quantity: it.Quantity, TotalPrice: it.TotalPrice})
	}
	return n
}
