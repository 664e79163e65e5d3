package paymentservice

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/sabor-storefront/internal/payment-service/domain"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/cache"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newSim(c cache.Cache) (*Simulator, *clock) {
	clk := &clock{t: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)}
	return NewSimulator(c, WithClock(clk.now)), clk
}

func pixRequest(ref string) domain.CreateRequest {
	return domain.CreateRequest{
		Method:      domain.MethodPix,
		Amount:      decimal.RequireFromString("73.40"),
		Description: "Pedido " + ref + " - Surreal Sabor",
		Reference:   ref,
		Payer:       domain.Payer{Email: "ana@example.com", FirstName: "Ana", LastName: "Souza"},
	}
}

func TestCreatePixPayment(t *testing.T) {
	sim, clk := newSim(nil)

	p, err := sim.Create(context.Background(), pixRequest("SS1"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.ID, "PIX_"))
	assert.Equal(t, domain.StatusPending, p.Status)
	assert.Equal(t, domain.DetailWaitingPayment, p.StatusDetail)
	assert.Equal(t, clk.t.Add(30*time.Minute), p.ExpiresAt)
	assert.Contains(t, p.QRCode, "BR.GOV.BCB.PIX")
	assert.Contains(t, p.QRCode, "540573.40")
	assert.NotEmpty(t, p.QRCodeBase64)
	assert.Empty(t, p.BarCode)
}

func TestCreateBoletoPayment(t *testing.T) {
	sim, clk := newSim(nil)
	req := pixRequest("SS2")
	req.Method = domain.MethodBoleto

	p, err := sim.Create(context.Background(), req)
	require.NoError(t, err)

	due := clk.t.Add(72 * time.Hour)
	assert.True(t, strings.HasPrefix(p.ID, "BOL_"))
	assert.Equal(t, due, p.ExpiresAt)
	assert.Empty(t, p.QRCode)
	assert.Contains(t, p.TicketURL, p.ID)
	require.Len(t, p.BarCode, 3+len("1773414000")+10+7)
	assert.True(t, strings.HasPrefix(p.BarCode, "237"))
	assert.Contains(t, p.BarCode, "0000007340")
}

func TestCreateRejectsInvalidRequests(t *testing.T) {
	sim, _ := newSim(nil)

	req := pixRequest("SS3")
	req.Method = "card"
	_, err := sim.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	req = pixRequest("SS3")
	req.Amount = decimal.Zero
	_, err = sim.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestGetApprovesAfterDwell(t *testing.T) {
	sim, clk := newSim(nil)
	ctx := context.Background()

	p, err := sim.Create(ctx, pixRequest("SS4"))
	require.NoError(t, err)
	created := clk.t

	clk.advance(90 * time.Second)
	got, err := sim.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Nil(t, got.ApprovedAt)

	clk.advance(31 * time.Second)
	got, err = sim.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Equal(t, domain.DetailAccredited, got.StatusDetail)
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, created.Add(DefaultApprovalDwell), *got.ApprovedAt)
}

func TestGetExpiresWhenDwellOutlastsExpiry(t *testing.T) {
	clk := &clock{t: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)}
	sim := NewSimulator(nil, WithClock(clk.now), WithApprovalDwell(time.Hour))
	ctx := context.Background()

	p, err := sim.Create(ctx, pixRequest("SS5"))
	require.NoError(t, err)

	clk.advance(31 * time.Minute)
	got, err := sim.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, got.Status)
}

func TestGetUnknownID(t *testing.T) {
	sim, _ := newSim(nil)
	for _, id := range []string{"", "XYZ_123", "PIX_not-a-ulid"} {
		_, err := sim.Get(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}
}

func TestCreateReusesPaymentForReference(t *testing.T) {
	sim, _ := newSim(cache.NewMemoryCache("payment"))
	ctx := context.Background()

	first, err := sim.Create(ctx, pixRequest("SS6"))
	require.NoError(t, err)
	second, err := sim.Create(ctx, pixRequest("SS6"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := sim.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "73.4", got.Amount.String())
	assert.Equal(t, "ana@example.com", got.Payer.Email)
}

func TestPixPayloadChecksum(t *testing.T) {
	assert.Equal(t, uint16(0x29B1), crc16CCITT([]byte("123456789")))

	payload := pixPayload("pix@surrealsabor.com.br", "Pedido SS1", "10.00", "Surreal Sabor", "SAO PAULO", "SS-1")
	assert.True(t, strings.HasPrefix(payload, "000201"))
	assert.Contains(t, payload, "0503SS1")
	body, crc := payload[:len(payload)-4], payload[len(payload)-4:]
	assert.Equal(t, strings.ToUpper(crc), crc)
	assert.Len(t, crc, 4)
	assert.True(t, strings.HasSuffix(body, "6304"))
}
