package paymentservice

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/sabor-storefront/internal/payment-service/domain"
	paymentrpc "github.com/jcmexdev/sabor-storefront/internal/payment-service/rpc"
)

var _ paymentrpc.PaymentServer = (*Server)(nil)

// Server exposes a Simulator as the payment.v1.Payment gRPC service.
type Server struct {
	sim *Simulator
}

func NewServer(sim *Simulator) *Server {
	return &Server{sim: sim}
}

func (s *Server) CreatePayment(ctx context.Context, req *paymentrpc.CreatePaymentRequest) (*paymentrpc.PaymentReply, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount %q", req.Amount)
	}

	p, err := s.sim.Create(ctx, domain.CreateRequest{
		Method:      domain.Method(req.Method),
		Amount:      amount,
		Description: req.Description,
		Reference:   req.Reference,
		Payer: domain.Payer{
			Email:     req.Payer.Email,
			FirstName: req.Payer.FirstName,
			LastName:  req.Payer.LastName,
		},
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toReply(p), nil
}

func (s *Server) GetPayment(ctx context.Context, req *paymentrpc.GetPaymentRequest) (*paymentrpc.PaymentReply, error) {
	p, err := s.sim.Get(ctx, req.Id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toReply(p), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toReply(p *domain.Payment) *paymentrpc.PaymentReply {
	r := &paymentrpc.PaymentReply{
		Id:           p.ID,
		Method:       string(p.Method),
		Status:       string(p.Status),
		StatusDetail: p.StatusDetail,
		Amount:       p.Amount.StringFixed(2),
		ExpiresAt:    p.ExpiresAt.UTC().Format(time.RFC3339Nano),
		QrCode:       p.QRCode,
		QrCodeBase64: p.QRCodeBase64,
		TicketUrl:    p.TicketURL,
		BarCode:      p.BarCode,
	}
	if p.ApprovedAt != nil {
		r.ApprovedAt = p.ApprovedAt.UTC().Format(time.RFC3339Nano)
	}
	return r
}
