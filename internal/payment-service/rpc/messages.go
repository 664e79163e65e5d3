// Package paymentrpc is the wire contract of the payment service: plain Go
// messages carried over gRPC with a JSON codec.
package paymentrpc

type Payer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CreatePaymentRequest struct {
	Method      string `json:"method"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
	Payer       Payer  `json:"payer"`
}

type GetPaymentRequest struct {
	Id string `json:"id"`
}

// PaymentReply carries timestamps as RFC3339 strings; ApprovedAt is empty
// until the payment is approved.
type PaymentReply struct {
	Id           string `json:"id"`
	Method       string `json:"method"`
	Status       string `json:"status"`
	StatusDetail string `json:"status_detail"`
	Amount       string `json:"amount"`
	ExpiresAt    string `json:"expires_at"`
	ApprovedAt   string `json:"approved_at,omitempty"`
	QrCode       string `json:"qr_code,omitempty"`
	QrCodeBase64 string `json:"qr_code_base64,omitempty"`
	TicketUrl    string `json:"ticket_url,omitempty"`
	BarCode      string `json:"barcode,omitempty"`
}
