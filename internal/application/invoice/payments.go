package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/invoice"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/payment"
	"github.com/hospitality/backend/internal/infrastructure/pdf"
	"github.com/hospitality/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// reusable intents can still be confirmed by the client
var reusableIntent = map[string]bool{
	"requires_payment_method": true,
	"requires_confirmation":   true,
	"requires_action":         true,
	"processing":              true,
}

// CreatePaymentIntent opens (or returns the existing) card payment for the outstanding balance
func (s *InvoiceService) CreatePaymentIntent(ctx context.Context, tenantID, id uuid.UUID) (_ *PaymentIntentDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "payment_intent",
		telemetry.String(telemetry.AttrTenantID, tenantID.String()),
		telemetry.String(telemetry.AttrInvoiceID, id.String()))
	defer func() { telemetry.End(span, err) }()

	if s.deps.Gateway == nil {
		return nil, shared.NewDomainError("PAYMENTS_DISABLED", "Card payments are not configured")
	}
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !inv.Status.AcceptsPayment() {
		return nil, shared.NewInvalidStateError("Invoice in status " + string(inv.Status) + " cannot accept payments")
	}
	balance := inv.Balance()

	if inv.PaymentIntentID != "" {
		existing, err := s.deps.Gateway.GetIntent(ctx, inv.PaymentIntentID)
		if err == nil && reusableIntent[existing.Status] && existing.Amount.Equal(balance) {
			return intentDTO(inv, existing), nil
		}
		if err != nil {
			s.logger.Warn("Failed to load existing payment intent",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err))
		}
	}

	lockKey := fmt.Sprintf("invoice-intent:%s", inv.ID)
	if s.deps.Idempotency != nil {
		fresh, err := s.deps.Idempotency.MarkProcessed(ctx, lockKey, s.cfg.IntentLockTTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, shared.NewDomainError("CONFLICT", "A payment for this invoice is already being prepared")
		}
		defer func() {
			if rerr := s.deps.Idempotency.Release(ctx, lockKey); rerr != nil {
				s.logger.Warn("Failed to release payment lock", zap.String("key", lockKey), zap.Error(rerr))
			}
		}()
	}

	intent, err := s.deps.Gateway.CreateIntent(ctx, payment.IntentInput{
		TenantID:      inv.TenantID,
		InvoiceID:     inv.ID,
		Number:        inv.Number,
		Amount:        balance,
		Currency:      inv.Currency,
		CustomerEmail: inv.CustomerEmail,
	})
	if err != nil {
		return nil, err
	}
	inv.SetPaymentIntent(intent.ID)
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Payment intent created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("intent_id", intent.ID))
	return intentDTO(inv, intent), nil
}

// ConfirmPayment records a succeeded intent against its invoice
func (s *InvoiceService) ConfirmPayment(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceDTO, error) {
	if s.deps.Gateway == nil {
		return nil, shared.NewDomainError("PAYMENTS_DISABLED", "Card payments are not configured")
	}
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv.PaymentIntentID == "" {
		return nil, shared.NewInvalidStateError("Invoice has no payment in progress")
	}
	if inv.PaymentIntentID == inv.PaidIntentID {
		return nil, shared.NewDomainError("PAYMENT_ALREADY_APPLIED", "Payment "+inv.PaidIntentID+" has already been recorded")
	}
	intent, err := s.deps.Gateway.GetIntent(ctx, inv.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != "succeeded" {
		return nil, shared.NewInvalidStateError("Payment has status " + intent.Status)
	}
	if err := inv.ApplyIntentPayment(intent.ID, intent.Amount, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publish(ctx, inv)
	dto := ToInvoiceDTO(inv)
	return &dto, nil
}

// Refund returns money to the customer, through the provider when the invoice was paid by card
func (s *InvoiceService) Refund(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal, reason string) (_ *RefundDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "refund",
		telemetry.String(telemetry.AttrInvoiceID, id.String()))
	defer func() { telemetry.End(span, err) }()

	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		amount = inv.AmountPaid
	}
	if err := inv.Refund(amount); err != nil {
		return nil, err
	}

	result := &RefundDTO{Amount: amount.Round(2), Status: "recorded"}
	if inv.PaidIntentID != "" && s.deps.Gateway != nil {
		r, err := s.deps.Gateway.Refund(ctx, payment.RefundInput{
			PaymentIntentID: inv.PaidIntentID,
			Amount:          amount,
			Currency:        inv.Currency,
			Reason:          reason,
		})
		if err != nil {
			return nil, err
		}
		result.RefundID = r.ID
		result.Status = r.Status
	}

	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice refunded",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("amount", result.Amount.String()),
		zap.String("refund_id", result.RefundID))
	result.Invoice = ToInvoiceDTO(inv)
	return result, nil
}

// RenderPDF prints an invoice with the tenant's letterhead, locale and timezone
func (s *InvoiceService) RenderPDF(ctx context.Context, tenantID, id uuid.UUID) (_ []byte, _ string, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "render_pdf",
		telemetry.String(telemetry.AttrInvoiceID, id.String()))
	defer func() { telemetry.End(span, err) }()

	if s.deps.Renderer == nil {
		return nil, "", shared.NewDomainError("PDF_DISABLED", "PDF rendering is not configured")
	}
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}

	doc := pdf.InvoiceDocument{Invoice: inv, Locale: "en", Timezone: "UTC"}
	if s.deps.Tenants != nil {
		t, err := s.deps.Tenants.FindByID(ctx, tenantID)
		if err != nil {
			return nil, "", err
		}
		doc.Issuer = pdf.Issuer{Name: t.Name, Email: t.ContactEmail, Phone: t.ContactPhone}
		doc.Locale = t.Locale
		doc.Timezone = t.Timezone
	}

	html, err := pdf.RenderInvoiceHTML(doc)
	if err != nil {
		return nil, "", err
	}
	out, err := s.deps.Renderer.Render(ctx, html)
	if err != nil {
		return nil, "", err
	}
	return out, inv.Number + ".pdf", nil
}

func intentDTO(inv *invoice.Invoice, intent *payment.Intent) *PaymentIntentDTO {
	return &PaymentIntentDTO{
		InvoiceID:    inv.ID,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       intent.Status,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	}
}
