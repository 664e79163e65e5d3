package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payer struct {
	Email     string
	FirstName string
	LastName  string
}

type PaymentRequest struct {
	Amount      decimal.Decimal
	Description string
	Payer       Payer
	// Reference is the order number, echoed back by providers.
	Reference string
}

// PaymentIntent is what a provider returns on creation.
type PaymentIntent struct {
	ID            string
	Method        PaymentMethod
	Status        PaymentStatus
	StatusDetail  string
	ExpiresAt     time.Time
	PixQRCode     string
	PixQRBase64   string
	TicketURL     string
	BoletoURL     string
	BoletoBarcode string
}

// Details keeps only the artifacts that belong to the intent's method.
func (p PaymentIntent) Details() PaymentDetails {
	d := PaymentDetails{ID: p.ID, ExpiresAt: p.ExpiresAt}
	switch p.Method {
	case PaymentPix:
		d.PixQRCode = p.PixQRCode
	case PaymentBoleto:
		d.BoletoURL = p.BoletoURL
		d.BoletoBarcode = p.BoletoBarcode
	}
	return d
}

// PaymentState is the provider's current view of a payment.
type PaymentState struct {
	ID           string
	Status       PaymentStatus
	StatusDetail string
	ApprovedAt   *time.Time
}
