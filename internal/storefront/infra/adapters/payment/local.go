// Package payment adapts payment providers to ports.PaymentGateway.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcmexdev/sabor-storefront/internal/payment-service/domain"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

// Provider is the in-process payment provider surface.
type Provider interface {
	Create(ctx context.Context, req domain.CreateRequest) (*domain.Payment, error)
	Get(ctx context.Context, id string) (*domain.Payment, error)
}

var _ ports.PaymentGateway = (*LocalGateway)(nil)

// LocalGateway calls a provider living in the same process.
type LocalGateway struct {
	provider Provider
}

func NewLocalGateway(p Provider) *LocalGateway {
	return &LocalGateway{provider: p}
}

func (g *LocalGateway) CreateInstantPayment(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentIntent, error) {
	return g.create(ctx, domain.MethodPix, req)
}

func (g *LocalGateway) CreateDeferredPayment(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentIntent, error) {
	return g.create(ctx, domain.MethodBoleto, req)
}

func (g *LocalGateway) GetPayment(ctx context.Context, id string) (*entity.PaymentState, error) {
	p, err := g.provider.Get(ctx, id)
	if err != nil {
		return nil, mapProviderError("get payment", err)
	}
	return &entity.PaymentState{
		ID:           p.ID,
		Status:       entity.PaymentStatus(p.Status),
		StatusDetail: p.StatusDetail,
		ApprovedAt:   p.ApprovedAt,
	}, nil
}

func (g *LocalGateway) create(ctx context.Context, method domain.Method, req entity.PaymentRequest) (*entity.PaymentIntent, error) {
	p, err := g.provider.Create(ctx, domain.CreateRequest{
		Method:      method,
		Amount:      req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
		Payer: domain.Payer{
			Email:     req.Payer.Email,
			FirstName: req.Payer.FirstName,
			LastName:  req.Payer.LastName,
		},
	})
	if err != nil {
		return nil, mapProviderError("create payment", err)
	}
	return &entity.PaymentIntent{
		ID:            p.ID,
		Method:        entity.PaymentMethod(p.Method),
		Status:        entity.PaymentStatus(p.Status),
		StatusDetail:  p.StatusDetail,
		ExpiresAt:     p.ExpiresAt,
		PixQRCode:     p.QRCode,
		PixQRBase64:   p.QRCodeBase64,
		TicketURL:     p.TicketURL,
		BoletoURL:     boletoURL(p.Method, p.TicketURL),
		BoletoBarcode: p.BarCode,
	}, nil
}

func mapProviderError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s: %v", entity.ErrNotFound, op, err)
	}
	return entity.Gateway(op, err)
}

// boletoURL is the ticket page for boletos; pix ticket pages are not a boleto URL.
func boletoURL(method domain.Method, ticket string) string {
	if method == domain.MethodBoleto {
		return ticket
	}
	return ""
}
