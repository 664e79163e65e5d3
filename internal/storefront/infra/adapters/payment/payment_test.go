package payment

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	paymentservice "github.com/jcmexdev/sabor-storefront/internal/payment-service/app"
	paymentrpc "github.com/jcmexdev/sabor-storefront/internal/payment-service/rpc"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/cache"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

func request(ref string) entity.PaymentRequest {
	return entity.PaymentRequest{
		Amount:      decimal.RequireFromString("73.40"),
		Description: "Pedido " + ref + " - Surreal Sabor",
		Reference:   ref,
		Payer:       entity.Payer{Email: "ana@example.com", FirstName: "Ana", LastName: "Souza"},
	}
}

func grpcGateway(t *testing.T, sim *paymentservice.Simulator) *GRPCGateway {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	paymentrpc.RegisterPaymentServer(srv, paymentservice.NewServer(sim))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewGRPCGateway(paymentrpc.NewPaymentClient(conn))
}

func TestGateways(t *testing.T) {
	sim := paymentservice.NewSimulator(cache.NewMemoryCache("payment"), paymentservice.WithApprovalDwell(0))
	gateways := map[string]ports.PaymentGateway{
		"local": NewLocalGateway(sim),
		"grpc":  grpcGateway(t, sim),
	}

	for name, gw := range gateways {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			pix, err := gw.CreateInstantPayment(ctx, request("SS-"+name+"-pix"))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(pix.ID, "PIX_"))
			assert.Equal(t, entity.PaymentPix, pix.Method)
			assert.NotEmpty(t, pix.PixQRCode)
			assert.Empty(t, pix.BoletoURL)
			assert.WithinDuration(t, time.Now().Add(30*time.Minute), pix.ExpiresAt, time.Minute)

			boleto, err := gw.CreateDeferredPayment(ctx, request("SS-"+name+"-bol"))
			require.NoError(t, err)
			assert.Equal(t, entity.PaymentBoleto, boleto.Method)
			assert.NotEmpty(t, boleto.BoletoURL)
			assert.NotEmpty(t, boleto.BoletoBarcode)

			state, err := gw.GetPayment(ctx, pix.ID)
			require.NoError(t, err)
			assert.Equal(t, entity.PaymentApproved, state.Status)
			require.NotNil(t, state.ApprovedAt)

			_, err = gw.GetPayment(ctx, "PIX_unknown")
			assert.ErrorIs(t, err, entity.ErrNotFound)
		})
	}
}

func TestGRPCGatewayMapsInvalidRequestToGatewayError(t *testing.T) {
	gw := grpcGateway(t, paymentservice.NewSimulator(nil))
	req := request("SS-zero")
	req.Amount = decimal.Zero

	_, err := gw.CreateInstantPayment(context.Background(), req)
	assert.ErrorIs(t, err, entity.ErrGateway)
	assert.NotErrorIs(t, err, entity.ErrNotFound)
}
