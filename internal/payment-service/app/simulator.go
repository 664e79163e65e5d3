package paymentservice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jcmexdev/sabor-storefront/internal/payment-service/domain"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/cache"
)

const (
	pixPrefix    = "PIX_"
	boletoPrefix = "BOL_"

	DefaultApprovalDwell = 2 * time.Minute
	pixExpiry            = 30 * time.Minute
	boletoExpiry         = 3 * 24 * time.Hour
	boletoBank           = "237"
	boletoInstitution    = "bradesco"
)

// Simulator is a stand-in payment provider. Payments start pending and are
// approved once the dwell time has passed since creation. The creation time
// is the ULID timestamp inside the payment id, so status can be derived from
// the id alone; the cache only adds amount and payer details.
type Simulator struct {
	cache         cache.Cache
	dwell         time.Duration
	pixKey        string
	merchantName  string
	merchantCity  string
	ticketBaseURL string
	now           func() time.Time
}

type Option func(*Simulator)

func WithApprovalDwell(d time.Duration) Option {
	return func(s *Simulator) { s.dwell = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

func WithMerchant(pixKey, name, city string) Option {
	return func(s *Simulator) {
		s.pixKey, s.merchantName, s.merchantCity = pixKey, name, city
	}
}

func WithTicketBaseURL(u string) Option {
	return func(s *Simulator) { s.ticketBaseURL = strings.TrimRight(u, "/") }
}

// NewSimulator returns a simulator. c may be nil.
func NewSimulator(c cache.Cache, opts ...Option) *Simulator {
	s := &Simulator{
		cache:         c,
		dwell:         DefaultApprovalDwell,
		pixKey:        "pix@surrealsabor.com.br",
		merchantName:  "Surreal Sabor",
		merchantCity:  "SAO PAULO",
		ticketBaseURL: "https://www.mercadopago.com.br",
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create issues a pending payment. A second call with the same reference
// returns the payment issued the first time.
func (s *Simulator) Create(ctx context.Context, req domain.CreateRequest) (*domain.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if prior := s.byReference(ctx, req.Reference); prior != nil {
		slog.InfoContext(ctx, "payment reused for reference", "reference", req.Reference, "payment_id", prior.ID)
		return s.evolve(prior), nil
	}

	now := s.now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()

	p := &domain.Payment{
		Method:       req.Method,
		Status:       domain.StatusPending,
		StatusDetail: domain.DetailWaitingPayment,
		Amount:       req.Amount,
		Description:  req.Description,
		Reference:    req.Reference,
		Payer:        req.Payer,
		CreatedAt:    ulid.Time(ulid.Timestamp(now)).UTC(),
	}

	switch req.Method {
	case domain.MethodPix:
		p.ID = pixPrefix + id
		p.ExpiresAt = p.CreatedAt.Add(pixExpiry)
		p.QRCode = pixPayload(s.pixKey, req.Description, req.Amount.StringFixed(2), s.merchantName, s.merchantCity, req.Reference)
		p.QRCodeBase64 = base64.StdEncoding.EncodeToString([]byte(p.QRCode))
		p.TicketURL = s.ticketURL(p.ID)
	case domain.MethodBoleto:
		p.ID = boletoPrefix + id
		p.ExpiresAt = p.CreatedAt.Add(boletoExpiry)
		p.TicketURL = s.ticketURL(p.ID)
		p.BarCode = boletoBarcode(p.ExpiresAt, req.Amount.Shift(2).IntPart(), rand.IntN(10_000_000))
		p.FinancialInstitution = boletoInstitution
	}

	s.remember(ctx, p)
	slog.InfoContext(ctx, "payment created",
		"payment_id", p.ID, "method", p.Method, "amount", p.Amount.StringFixed(2), "reference", p.Reference)
	return p, nil
}

// Get reports the current state of a payment.
func (s *Simulator) Get(ctx context.Context, id string) (*domain.Payment, error) {
	method, createdAt, err := decodeID(id)
	if err != nil {
		return nil, err
	}

	p := s.recall(ctx, id)
	if p == nil {
		p = &domain.Payment{ID: id, Method: method, CreatedAt: createdAt}
		if method == domain.MethodPix {
			p.ExpiresAt = createdAt.Add(pixExpiry)
		} else {
			p.ExpiresAt = createdAt.Add(boletoExpiry)
		}
	}
	return s.evolve(p), nil
}

// evolve derives status from elapsed time.
func (s *Simulator) evolve(p *domain.Payment) *domain.Payment {
	now := s.now()
	approveAt := p.CreatedAt.Add(s.dwell)

	switch {
	case !now.Before(approveAt) && approveAt.Before(p.ExpiresAt):
		at := approveAt
		p.Status, p.StatusDetail, p.ApprovedAt = domain.StatusApproved, domain.DetailAccredited, &at
	case !now.Before(p.ExpiresAt):
		p.Status, p.StatusDetail, p.ApprovedAt = domain.StatusExpired, domain.DetailExpired, nil
	default:
		p.Status, p.StatusDetail, p.ApprovedAt = domain.StatusPending, domain.DetailWaitingPayment, nil
	}
	return p
}

func (s *Simulator) ticketURL(id string) string {
	return fmt.Sprintf("%s/payments/%s/ticket", s.ticketBaseURL, id)
}

func (s *Simulator) remember(ctx context.Context, p *domain.Payment) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	ttl := time.Until(p.ExpiresAt) + 24*time.Hour
	if err := s.cache.Set(ctx, s.cache.GenerateKey("payment", p.ID), data, ttl); err != nil {
		slog.WarnContext(ctx, "payment cache write failed", "payment_id", p.ID, "error", err)
		return
	}
	if p.Reference != "" {
		if err := s.cache.Set(ctx, s.cache.GenerateKey("reference", p.Reference), p.ID, ttl); err != nil {
			slog.WarnContext(ctx, "payment reference cache write failed", "reference", p.Reference, "error", err)
		}
	}
}

func (s *Simulator) recall(ctx context.Context, id string) *domain.Payment {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.GenerateKey("payment", id))
	if err != nil || raw == "" {
		return nil
	}
	var p domain.Payment
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	return &p
}

func (s *Simulator) byReference(ctx context.Context, ref string) *domain.Payment {
	if s.cache == nil || ref == "" {
		return nil
	}
	id, err := s.cache.Get(ctx, s.cache.GenerateKey("reference", ref))
	if err != nil || id == "" {
		return nil
	}
	return s.recall(ctx, id)
}

// decodeID splits a payment id into its method and creation time.
func decodeID(id string) (domain.Method, time.Time, error) {
	var (
		method domain.Method
		raw    string
	)
	switch {
	case strings.HasPrefix(id, pixPrefix):
		method, raw = domain.MethodPix, strings.TrimPrefix(id, pixPrefix)
	case strings.HasPrefix(id, boletoPrefix):
		method, raw = domain.MethodBoleto, strings.TrimPrefix(id, boletoPrefix)
	default:
		return "", time.Time{}, fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	u, err := ulid.ParseStrict(raw)
	if err != nil {
		return "", time.Time{}, errors.Join(fmt.Errorf("%w: %q", domain.ErrNotFound, id), err)
	}
	return method, ulid.Time(u.Time()).UTC(), nil
}

// boletoBarcode is bank code, due date in unix seconds, amount in cents
// padded to 10 digits and a 7 digit sequence.
func boletoBarcode(due time.Time, cents int64, seq int) string {
	return fmt.Sprintf("%s%d%010d%07d", boletoBank, due.Unix(), cents, seq)
}
