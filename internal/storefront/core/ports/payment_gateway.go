package ports

import (
	"context"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
)

// PaymentGateway is the provider contract the order engine depends on.
// Implementations must return errors wrapping entity.ErrNotFound for
// unknown payment ids.
type PaymentGateway interface {
	CreateInstantPayment(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentIntent, error)
	CreateDeferredPayment(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentIntent, error)
	GetPayment(ctx context.Context, id string) (*entity.PaymentState, error)
}
