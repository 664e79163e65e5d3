package payment

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/sabor-storefront/internal/payment-service/domain"
	paymentrpc "github.com/jcmexdev/sabor-storefront/internal/payment-service/rpc"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

var _ ports.PaymentGateway = (*GRPCGateway)(nil)

// GRPCGateway talks to the payment service over gRPC.
type GRPCGateway struct {
	client paymentrpc.PaymentClient
}

func NewGRPCGateway(client paymentrpc.PaymentClient) *GRPCGateway {
	return &GRPCGateway{client: client}
}

func (g *GRPCGateway) CreateInstantPayment(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentIntent, error) {
	return g.create(ctx, domain.MethodPix, req)
}

func (g *GRPCGateway) CreateDeferredPayment(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentIntent, error) {
	return g.create(ctx, domain.MethodBoleto, req)
}

func (g *GRPCGateway) GetPayment(ctx context.Context, id string) (*entity.PaymentState, error) {
	res, err := g.client.GetPayment(ctx, &paymentrpc.GetPaymentRequest{Id: id})
	if err != nil {
		return nil, mapRPCError("get payment", err)
	}
	state := &entity.PaymentState{
		ID:           res.Id,
		Status:       entity.PaymentStatus(res.Status),
		StatusDetail: res.StatusDetail,
	}
	if res.ApprovedAt != "" {
		at, err := time.Parse(time.RFC3339Nano, res.ApprovedAt)
		if err != nil {
			return nil, entity.Gateway("get payment", fmt.Errorf("approved_at %q: %w", res.ApprovedAt, err))
		}
		state.ApprovedAt = &at
	}
	return state, nil
}

func (g *GRPCGateway) create(ctx context.Context, method domain.Method, req entity.PaymentRequest) (*entity.PaymentIntent, error) {
	res, err := g.client.CreatePayment(ctx, &paymentrpc.CreatePaymentRequest{
		Method:      string(method),
		Amount:      req.Amount.StringFixed(2),
		Description: req.Description,
		Reference:   req.Reference,
		Payer: paymentrpc.Payer{
			Email:     req.Payer.Email,
			FirstName: req.Payer.FirstName,
			LastName:  req.Payer.LastName,
		},
	})
	if err != nil {
		return nil, mapRPCError("create payment", err)
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, res.ExpiresAt)
	if err != nil {
		return nil, entity.Gateway("create payment", fmt.Errorf("expires_at %q: %w", res.ExpiresAt, err))
	}
	return &entity.PaymentIntent{
		ID:            res.Id,
		Method:        entity.PaymentMethod(res.Method),
		Status:        entity.PaymentStatus(res.Status),
		StatusDetail:  res.StatusDetail,
		ExpiresAt:     expiresAt,
		PixQRCode:     res.QrCode,
		PixQRBase64:   res.QrCodeBase64,
		TicketURL:     res.TicketUrl,
		BoletoURL:     boletoURL(domain.Method(res.Method), res.TicketUrl),
		BoletoBarcode: res.BarCode,
	}, nil
}

func mapRPCError(op string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %s: %v", entity.ErrNotFound, op, err)
	}
	return entity.Gateway(op, err)
}
