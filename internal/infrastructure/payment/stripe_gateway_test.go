package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"go.uber.org/zap"
)

type mockBackend struct {
	calls   []string
	params  []stripe.ParamsContainer
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	m.calls = append(m.calls, method+" "+path)
	m.params = append(m.params, params)
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

func newTestGateway(t *testing.T, b *mockBackend) *StripeGateway {
	t.Helper()
	g, err := NewStripeGateway(config.PaymentConfig{StripeSecretKey: "sk_test_123", TestMode: true}, zap.NewNop(), WithBackend(b))
	require.NoError(t, err)
	return g
}

func TestNewStripeGateway_RequiresKey(t *testing.T) {
	_, err := NewStripeGateway(config.PaymentConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateIntent(t *testing.T) {
	b := &mockBackend{handler: func(method, path string, _ stripe.ParamsContainer) ([]byte, error) {
		if method == "POST" && path == "/v1/payment_intents" {
			return json.Marshal(&stripe.PaymentIntent{
				ID:           "pi_123",
				ClientSecret: "pi_123_secret_abc",
				Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
				Amount:       25050,
				Currency:     "eur",
			})
		}
		return nil, fmt.Errorf("unexpected call: %s %s", method, path)
	}}
	g := newTestGateway(t, b)

	invoiceID := uuid.New()
	intent, err := g.CreateIntent(context.Background(), IntentInput{
		TenantID:      uuid.New(),
		InvoiceID:     invoiceID,
		Number:        "INV-202406-0001",
		Amount:        decimal.RequireFromString("250.50"),
		Currency:      "EUR",
		CustomerEmail: "guest@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	assert.Equal(t, "requires_payment_method", intent.Status)
	assert.True(t, decimal.RequireFromString("250.50").Equal(intent.Amount))
	assert.Equal(t, "EUR", intent.Currency)

	require.Len(t, b.params, 1)
	params := b.params[0].(*stripe.PaymentIntentParams)
	assert.Equal(t, int64(25050), *params.Amount)
	assert.Equal(t, "eur", *params.Currency)
	assert.Equal(t, invoiceID.String(), params.Metadata["invoice_id"])
	assert.Equal(t, fmt.Sprintf("invoice-%s-25050", invoiceID), *params.IdempotencyKey)
}

func TestCreateIntent_ProviderError(t *testing.T) {
	b := &mockBackend{handler: func(string, string, stripe.ParamsContainer) ([]byte, error) {
		return nil, &stripe.Error{Code: stripe.ErrorCodeCardDeclined, Msg: "Your card was declined", HTTPStatusCode: 402}
	}}
	g := newTestGateway(t, b)

	_, err := g.CreateIntent(context.Background(), IntentInput{
		InvoiceID: uuid.New(),
		Amount:    decimal.NewFromInt(10),
		Currency:  "USD",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrExternalService))
	assert.Contains(t, err.Error(), "card was declined")
}

func TestCreateIntent_RejectsBadAmount(t *testing.T) {
	b := &mockBackend{handler: func(string, string, stripe.ParamsContainer) ([]byte, error) {
		t.Fatal("provider must not be called")
		return nil, nil
	}}
	g := newTestGateway(t, b)

	_, err := g.CreateIntent(context.Background(), IntentInput{Amount: decimal.Zero, Currency: "USD"})
	assert.Error(t, err)
	assert.Empty(t, b.calls)
}

func TestRefund(t *testing.T) {
	b := &mockBackend{handler: func(method, path string, _ stripe.ParamsContainer) ([]byte, error) {
		if method == "POST" && path == "/v1/refunds" {
			return json.Marshal(&stripe.Refund{ID: "re_1", Status: stripe.RefundStatusSucceeded, Amount: 1000, Currency: "usd"})
		}
		return nil, fmt.Errorf("unexpected call: %s %s", method, path)
	}}
	g := newTestGateway(t, b)

	res, err := g.Refund(context.Background(), RefundInput{
		PaymentIntentID: "pi_123",
		Amount:          decimal.NewFromInt(10),
		Currency:        "USD",
		Reason:          "guest cancelled",
	})
	require.NoError(t, err)
	assert.Equal(t, "re_1", res.ID)
	assert.Equal(t, "succeeded", res.Status)
	assert.True(t, decimal.NewFromInt(10).Equal(res.Amount))

	params := b.params[0].(*stripe.RefundParams)
	assert.Equal(t, "pi_123", *params.PaymentIntent)
	assert.Equal(t, int64(1000), *params.Amount)
}

func TestRefund_RequiresIntent(t *testing.T) {
	g := newTestGateway(t, &mockBackend{})
	_, err := g.Refund(context.Background(), RefundInput{Amount: decimal.NewFromInt(1), Currency: "USD"})
	assert.Error(t, err)
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"12.34", "USD", 1234},
		{"12.345", "EUR", 1235},
		{"1500", "JPY", 1500},
		{"0.01", "gbp", 1},
	}
	for _, tt := range tests {
		t.Run(tt.amount+tt.currency, func(t *testing.T) {
			got, err := ToMinorUnits(decimal.RequireFromString(tt.amount), tt.currency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ToMinorUnits(decimal.NewFromInt(1), "EURO")
	assert.Error(t, err)

	assert.True(t, decimal.RequireFromString("12.34").Equal(FromMinorUnits(1234, "usd")))
	assert.True(t, decimal.NewFromInt(1500).Equal(FromMinorUnits(1500, "jpy")))
}
