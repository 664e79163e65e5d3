package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("payment: not found")
	ErrInvalidRequest = errors.New("payment: invalid request")
)

type Method string

const (
	MethodPix    Method = "pix"
	MethodBoleto Method = "boleto"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

const (
	DetailWaitingPayment = "pending_waiting_payment"
	DetailAccredited     = "accredited"
	DetailExpired        = "expired"
)

type Payer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CreateRequest struct {
	Method      Method
	Amount      decimal.Decimal
	Description string
	Reference   string
	Payer       Payer
}

func (r CreateRequest) Validate() error {
	if r.Method != MethodPix && r.Method != MethodBoleto {
		return errors.Join(ErrInvalidRequest, errors.New("unknown method "+string(r.Method)))
	}
	if !r.Amount.IsPositive() {
		return errors.Join(ErrInvalidRequest, errors.New("amount must be positive"))
	}
	return nil
}

type Payment struct {
	ID                   string          `json:"id"`
	Method               Method          `json:"method"`
	Status               Status          `json:"status"`
	StatusDetail         string          `json:"status_detail"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description"`
	Reference            string          `json:"reference"`
	Payer                Payer           `json:"payer"`
	CreatedAt            time.Time       `json:"created_at"`
	ExpiresAt            time.Time       `json:"expires_at"`
	ApprovedAt           *time.Time      `json:"approved_at,omitempty"`
	QRCode               string          `json:"qr_code,omitempty"`
	QRCodeBase64         string          `json:"qr_code_base64,omitempty"`
	TicketURL            string          `json:"ticket_url,omitempty"`
	BarCode              string          `json:"barcode,omitempty"`
	FinancialInstitution string          `json:"financial_institution,omitempty"`
}
