// Package payment talks to the card payment provider used to settle invoices.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no secret key is set
var ErrNotConfigured = errors.New("stripe: secret key is not configured")

// zeroDecimal lists currencies Stripe charges in whole units
var zeroDecimal = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true, "JPY": true, "KMF": true,
	"KRW": true, "MGA": true, "PYG": true, "RWF": true, "UGX": true, "VND": true,
	"VUV": true, "XAF": true, "XOF": true, "XPF": true,
}

// IntentInput describes the amount to collect for one invoice
type IntentInput struct {
	TenantID      uuid.UUID
	InvoiceID     uuid.UUID
	Number        string
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
}

// Intent is the provider's view of a payment intent
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       decimal.Decimal
	Currency     string
}

// RefundInput describes a refund against a captured intent
type RefundInput struct {
	PaymentIntentID string
	Amount          decimal.Decimal
	Currency        string
	Reason          string
}

// RefundResult is the provider's view of a refund
type RefundResult struct {
	ID     string
	Status string
	Amount decimal.Decimal
}

// StripeGateway creates payment intents and refunds through the Stripe API
type StripeGateway struct {
	intents  *paymentintent.Client
	refunds  *refund.Client
	testMode bool
	logger   *zap.Logger
}

// GatewayOption configures a StripeGateway
type GatewayOption func(*gatewayOptions)

type gatewayOptions struct {
	backend stripe.Backend
}

// WithBackend overrides the HTTP backend, used by tests
func WithBackend(b stripe.Backend) GatewayOption {
	return func(o *gatewayOptions) {
		o.backend = b
	}
}

// NewStripeGateway creates a gateway bound to the configured secret key
func NewStripeGateway(cfg config.PaymentConfig, logger *zap.Logger, opts ...GatewayOption) (*StripeGateway, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	o := &gatewayOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.backend == nil {
		o.backend = stripe.GetBackend(stripe.APIBackend)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StripeGateway{
		intents:  &paymentintent.Client{B: o.backend, Key: cfg.StripeSecretKey},
		refunds:  &refund.Client{B: o.backend, Key: cfg.StripeSecretKey},
		testMode: cfg.TestMode,
		logger:   logger,
	}, nil
}

// CreateIntent opens a payment intent for an invoice balance.
// The Stripe idempotency key is derived from the invoice and amount, so a
// retried request returns the same intent instead of charging twice.
func (g *StripeGateway) CreateIntent(ctx context.Context, in IntentInput) (*Intent, error) {
	minor, err := ToMinorUnits(in.Amount, in.Currency)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minor),
		Currency: stripe.String(strings.ToLower(in.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String("Invoice " + in.Number),
	}
	if in.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(in.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata("tenant_id", in.TenantID.String())
	params.AddMetadata("invoice_id", in.InvoiceID.String())
	params.AddMetadata("invoice_number", in.Number)
	params.SetIdempotencyKey(fmt.Sprintf("invoice-%s-%d", in.InvoiceID, minor))

	pi, err := g.intents.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe payment intent",
			zap.String("invoice_id", in.InvoiceID.String()),
			zap.Error(err))
		return nil, wrapStripeError("failed to create payment intent", err)
	}

	g.logger.Info("Created Stripe payment intent",
		zap.String("invoice_id", in.InvoiceID.String()),
		zap.String("payment_intent_id", pi.ID),
		zap.Bool("test_mode", g.testMode))

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       FromMinorUnits(pi.Amount, string(pi.Currency)),
		Currency:     strings.ToUpper(string(pi.Currency)),
	}, nil
}

// GetIntent fetches the current state of an intent
func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.intents.Get(id, params)
	if err != nil {
		return nil, wrapStripeError("failed to get payment intent", err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       FromMinorUnits(pi.Amount, string(pi.Currency)),
		Currency:     strings.ToUpper(string(pi.Currency)),
	}, nil
}

// Refund returns part or all of a captured payment
func (g *StripeGateway) Refund(ctx context.Context, in RefundInput) (*RefundResult, error) {
	if in.PaymentIntentID == "" {
		return nil, shared.NewValidationError("Invoice has no payment intent to refund")
	}
	minor, err := ToMinorUnits(in.Amount, in.Currency)
	if err != nil {
		return nil, err
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(in.PaymentIntentID),
		Amount:        stripe.Int64(minor),
	}
	if in.Reason != "" {
		params.AddMetadata("reason", in.Reason)
	}
	params.Context = ctx

	r, err := g.refunds.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe refund",
			zap.String("payment_intent_id", in.PaymentIntentID),
			zap.Error(err))
		return nil, wrapStripeError("failed to create refund", err)
	}

	g.logger.Info("Created Stripe refund",
		zap.String("payment_intent_id", in.PaymentIntentID),
		zap.String("refund_id", r.ID))

	return &RefundResult{
		ID:     r.ID,
		Status: string(r.Status),
		Amount: FromMinorUnits(r.Amount, string(r.Currency)),
	}, nil
}

// ToMinorUnits converts an amount to the integer unit Stripe expects
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	if len(currency) != 3 {
		return 0, shared.NewValidationError("Currency must be a 3-letter ISO code")
	}
	if !amount.IsPositive() {
		return 0, shared.NewValidationError("Amount must be greater than zero")
	}
	if zeroDecimal[strings.ToUpper(currency)] {
		return amount.Round(0).IntPart(), nil
	}
	return amount.Shift(2).Round(0).IntPart(), nil
}

// FromMinorUnits converts a Stripe amount back to a decimal
func FromMinorUnits(minor int64, currency string) decimal.Decimal {
	if zeroDecimal[strings.ToUpper(currency)] {
		return decimal.NewFromInt(minor)
	}
	return decimal.New(minor, -2)
}

func wrapStripeError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = string(se.Code)
		}
		if se.Type == stripe.ErrorTypeInvalidRequest && se.HTTPStatusCode == 400 {
			return shared.NewValidationError("Payment provider rejected the request: " + msg)
		}
		return shared.NewExternalServiceError("stripe", op+": "+msg)
	}
	return shared.NewExternalServiceError("stripe", op+": "+err.Error())
}
