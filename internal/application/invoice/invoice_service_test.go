package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/invoice"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/cache"
	"github.com/hospitality/backend/internal/infrastructure/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memInvoices struct {
	items map[uuid.UUID]*invoice.Invoice
	seq   map[string]int
}

func newMemInvoices() *memInvoices {
	return &memInvoices{items: map[uuid.UUID]*invoice.Invoice{}, seq: map[string]int{}}
}

func (r *memInvoices) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	inv, ok := r.items[id]
	if !ok || inv.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return inv, nil
}

func (r *memInvoices) FindByBooking(_ context.Context, tenantID, bookingID uuid.UUID) ([]invoice.Invoice, error) {
	var out []invoice.Invoice
	for _, inv := range r.items {
		if inv.TenantID == tenantID && inv.BookingID != nil && *inv.BookingID == bookingID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memInvoices) FindAllForTenant(_ context.Context, tenantID uuid.UUID, f shared.Filter) ([]invoice.Invoice, error) {
	var out []invoice.Invoice
	for _, inv := range r.items {
		if inv.TenantID != tenantID {
			continue
		}
		if status, _ := f.Filters["status"].(string); status != "" && string(inv.Status) != status {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (r *memInvoices) CountForTenant(ctx context.Context, tenantID uuid.UUID, f shared.Filter) (int64, error) {
	items, _ := r.FindAllForTenant(ctx, tenantID, f)
	return int64(len(items)), nil
}

func (r *memInvoices) FindOverdueCandidates(_ context.Context, tenantID uuid.UUID, cutoff time.Time) ([]invoice.Invoice, error) {
	var out []invoice.Invoice
	for _, inv := range r.items {
		if inv.TenantID == tenantID && inv.DueDate != nil && inv.DueDate.Before(cutoff) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memInvoices) NextSequence(_ context.Context, tenantID uuid.UUID, month time.Time) (int, error) {
	key := tenantID.String() + month.Format("200601")
	r.seq[key]++
	return r.seq[key], nil
}

func (r *memInvoices) SumPaid(context.Context, uuid.UUID, time.Time, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *memInvoices) Save(_ context.Context, inv *invoice.Invoice) error {
	r.items[inv.ID] = inv
	return nil
}

func (r *memInvoices) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	if inv, ok := r.items[id]; ok && inv.TenantID == tenantID {
		delete(r.items, id)
		return nil
	}
	return shared.ErrNotFound
}

type fakeGateway struct {
	intents map[string]*payment.Intent
	created int
	refunds []payment.RefundInput
	failOn  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: map[string]*payment.Intent{}}
}

func (g *fakeGateway) CreateIntent(_ context.Context, in payment.IntentInput) (*payment.Intent, error) {
	if g.failOn != nil {
		return nil, g.failOn
	}
	g.created++
	intent := &payment.Intent{
		ID:           "pi_" + in.Number,
		ClientSecret: "pi_" + in.Number + "_secret",
		Status:       "requires_payment_method",
		Amount:       in.Amount,
		Currency:     in.Currency,
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *fakeGateway) GetIntent(_ context.Context, id string) (*payment.Intent, error) {
	intent, ok := g.intents[id]
	if !ok {
		return nil, errors.New("no such intent")
	}
	return intent, nil
}

func (g *fakeGateway) Refund(_ context.Context, in payment.RefundInput) (*payment.RefundResult, error) {
	g.refunds = append(g.refunds, in)
	return &payment.RefundResult{ID: "re_1", Status: "succeeded", Amount: in.Amount}, nil
}

type stubRenderer struct{ html string }

func (r *stubRenderer) Render(_ context.Context, html string) ([]byte, error) {
	r.html = html
	return []byte("%PDF-1.7"), nil
}

type stubTenants struct{ tenant *identity.Tenant }

func (s stubTenants) FindByID(_ context.Context, id uuid.UUID) (*identity.Tenant, error) {
	if s.tenant == nil || s.tenant.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.tenant, nil
}

type stubBookings map[uuid.UUID]*booking.Booking

func (s stubBookings) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*booking.Booking, error) {
	b, ok := s[id]
	if !ok || b.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

type recordingPublisher struct{ types []string }

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}

type fixture struct {
	svc      *InvoiceService
	repo     *memInvoices
	gateway  *fakeGateway
	renderer *stubRenderer
	events   *recordingPublisher
	bookings stubBookings
	tenantID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tenantID := uuid.New()
	idem := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = idem.Close() })

	f := &fixture{
		repo:     newMemInvoices(),
		gateway:  newFakeGateway(),
		renderer: &stubRenderer{},
		events:   &recordingPublisher{},
		bookings: stubBookings{},
		tenantID: tenantID,
	}
	tenant := &identity.Tenant{Name: "Casa Azul", ContactEmail: "billing@casa-azul.test", Timezone: "Europe/Lisbon", Locale: "pt", Currency: "EUR"}
	tenant.ID = tenantID

	f.svc = NewInvoiceService(f.repo, Deps{
		Tenants:     stubTenants{tenant: tenant},
		Bookings:    f.bookings,
		Gateway:     f.gateway,
		Renderer:    f.renderer,
		Idempotency: idem,
		Events:      f.events,
	}, Config{PaymentTermsDays: 14, DefaultTaxRate: decimal.NewFromInt(10)}, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) draft(t *testing.T) *InvoiceDTO {
	t.Helper()
	dto, err := f.svc.Create(context.Background(), CreateInvoiceInput{
		TenantID:      f.tenantID,
		CustomerName:  "Ana Lima",
		CustomerEmail: "ana@example.test",
		Currency:      "eur",
		Items: []ItemInput{
			{Description: "Dinner for two", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(80)},
			{Description: "Wine", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	return dto
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestInvoiceService_CreateNumbersAndTotals(t *testing.T) {
	f := newFixture(t)

	first := f.draft(t)
	second := f.draft(t)

	assert.Equal(t, "INV-202603-0001", first.Number)
	assert.Equal(t, "INV-202603-0002", second.Number)
	assert.Equal(t, "EUR", first.Currency)
	assert.True(t, first.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, first.TaxAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, first.Total.Equal(decimal.NewFromInt(110)))
	assert.Len(t, first.Items, 2)
}

func TestInvoiceService_CreateFromBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := booking.NewBooking(f.tenantID, uuid.New(),
		booking.Guest{Name: "Rui Costa", Email: "rui@example.test"},
		booking.Stay{
			CheckIn:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
			Adults:   2,
		}, booking.BookingSourceDirect)
	require.NoError(t, err)
	require.NoError(t, b.AssignRoom(uuid.New(), decimal.NewFromInt(120), "EUR"))
	f.bookings[b.ID] = b

	zero := decimal.Zero
	dto, err := f.svc.CreateFromBooking(ctx, FromBookingInput{TenantID: f.tenantID, BookingID: b.ID, TaxRate: &zero})
	require.NoError(t, err)

	require.Len(t, dto.Items, 1)
	assert.True(t, dto.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, dto.Items[0].UnitPrice.Equal(decimal.NewFromInt(120)))
	assert.True(t, dto.Total.Equal(decimal.NewFromInt(360)))
	assert.Equal(t, b.ID, *dto.BookingID)
	assert.Equal(t, "Rui Costa", dto.CustomerName)

	_, err = f.svc.CreateFromBooking(ctx, FromBookingInput{TenantID: f.tenantID, BookingID: b.ID})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	// voiding frees the booking for a corrected invoice
	_, err = f.svc.Void(ctx, f.tenantID, dto.ID)
	require.NoError(t, err)
	_, err = f.svc.CreateFromBooking(ctx, FromBookingInput{TenantID: f.tenantID, BookingID: b.ID})
	assert.NoError(t, err)
}

func TestInvoiceService_IssuePayAndEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.draft(t)

	issued, err := f.svc.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "issued", issued.Status)
	assert.Equal(t, "2026-03-24", issued.DueDate.Format(time.DateOnly))

	_, err = f.svc.AddItem(ctx, f.tenantID, inv.ID, ItemInput{Description: "Late", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)})
	requireCode(t, err, "INVALID_STATE")

	_, err = f.svc.RecordPayment(ctx, f.tenantID, inv.ID, decimal.NewFromInt(500))
	requireCode(t, err, "OVERPAYMENT")

	partial, err := f.svc.RecordPayment(ctx, f.tenantID, inv.ID, decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.Equal(t, "partially_paid", partial.Status)
	assert.True(t, partial.Balance.Equal(decimal.NewFromInt(50)))

	paid, err := f.svc.RecordPayment(ctx, f.tenantID, inv.ID, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.NotNil(t, paid.PaidAt)

	assert.Equal(t, []string{invoice.EventTypeInvoiceIssued, invoice.EventTypeInvoicePaid}, f.events.types)

	err = f.svc.Delete(ctx, f.tenantID, inv.ID)
	requireCode(t, err, "INVALID_STATE")
}

func TestInvoiceService_PaymentIntentIsReused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.draft(t)

	_, err := f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	requireCode(t, err, "INVALID_STATE")

	_, err = f.svc.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)

	first, err := f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_"+inv.Number, first.IntentID)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(110)))

	again, err := f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, first.IntentID, again.IntentID)
	assert.Equal(t, 1, f.gateway.created)

	f.gateway.intents[first.IntentID].Status = "succeeded"
	paid, err := f.svc.ConfirmPayment(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)

	refund, err := f.svc.Refund(ctx, f.tenantID, inv.ID, decimal.NewFromInt(30), "requested_by_customer")
	require.NoError(t, err)
	assert.Equal(t, "re_1", refund.RefundID)
	assert.Equal(t, "partially_paid", refund.Invoice.Status)
	require.Len(t, f.gateway.refunds, 1)
	assert.Equal(t, first.IntentID, f.gateway.refunds[0].PaymentIntentID)
}

func TestInvoiceService_ConfirmAfterRefundDoesNotRepay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.draft(t)
	_, err := f.svc.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)

	intent, err := f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	f.gateway.intents[intent.IntentID].Status = "succeeded"

	_, err = f.svc.ConfirmPayment(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, f.tenantID, inv.ID)
	requireCode(t, err, "PAYMENT_ALREADY_APPLIED")

	refund, err := f.svc.Refund(ctx, f.tenantID, inv.ID, decimal.Zero, "requested_by_customer")
	require.NoError(t, err)
	assert.Equal(t, "issued", refund.Invoice.Status)
	assert.True(t, refund.Invoice.AmountPaid.IsZero())

	_, err = f.svc.ConfirmPayment(ctx, f.tenantID, inv.ID)
	requireCode(t, err, "PAYMENT_ALREADY_APPLIED")

	got, err := f.svc.GetByID(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "issued", got.Status)
	assert.True(t, got.AmountPaid.IsZero())
}

func TestInvoiceService_PaymentIntentIsReused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.draft(t)

	_, err := f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	requireCode(t, err, "INVALID_STATE")

	_, err = f.svc.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)

	first, err := f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_"+inv.Number, first.IntentID)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(110)))

	again, err := f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, first.IntentID, again.IntentID)
	assert.Equal(t, 1, f.gateway.created)

	f.gateway.intents[first.IntentID].Status = "succeeded"
	paid, err := f.svc.ConfirmPayment(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)

	refund, err := f.svc.Refund(ctx, f.tenantID, inv.ID, decimal.NewFromInt(30), "requested_by_customer")
	require.NoError(t, err)
	assert.Equal(t, "re_1", refund.RefundID)
	assert.Equal(t, "partially_paid", refund.Invoice.Status)
	require.Len(t, f.gateway.refunds, 1)
	assert.Equal(t, first.IntentID, f.gateway.refunds[0].PaymentIntentID)
}

func TestInvoiceService_ConfirmAfterRefundDoesNotRepay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.draft(t)
	_, err := f.svc.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)

	intent, err := f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	f.gateway.intents[intent.IntentID].Status = "succeeded"

	_, err = f.svc.ConfirmPayment(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, f.tenantID, inv.ID)
	requireCode(t, err, "PAYMENT_ALREADY_APPLIED")

	refund, err := f.svc.Refund(ctx, f.tenantID, inv.ID, decimal.Zero, "requested_by_customer")
	require.NoError(t, err)
	assert.Equal(t, "issued", refund.Invoice.Status)
	assert.True(t, refund.Invoice.AmountPaid.IsZero())

	_, err = f.svc.ConfirmPayment(ctx, f.tenantID, inv.ID)
	requireCode(t, err, "PAYMENT_ALREADY_APPLIED")

	got, err := f.svc.GetByID(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "issued", got.Status)
	assert.True(t, got.AmountPaid.IsZero())

	// a fresh intent for the outstanding balance can still be paid
	next, err := f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.gateway.created)
	f.gateway.intents[next.IntentID].Status = "succeeded"
	paid, err := f.svc.ConfirmPayment(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
}

func TestInvoiceService_VoidAfterPartialPaymentOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.draft(t)
	_, err := f.svc.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, f.tenantID, inv.ID, decimal.NewFromInt(50))
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC) }
	res, err := f.svc.SweepOverdue(ctx, f.tenantID)
	require.NoError(t, err)
	require.Equal(t, 1, res.Marked)

	_, err = f.svc.Void(ctx, f.tenantID, inv.ID)
	requireCode(t, err, "INVALID_STATE")

	got, err := f.svc.GetByID(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "overdue", got.Status)
	assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(50)))
}

func TestInvoiceService_PaymentIntentFailureReleasesLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.draft(t)
	_, err := f.svc.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)

	f.gateway.failOn = shared.NewExternalServiceError("stripe", "card network down")
	_, err = f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	require.Error(t, err)

	f.gateway.failOn = nil
	_, err = f.svc.CreatePaymentIntent(ctx, f.tenantID, inv.ID)
	assert.NoError(t, err)
}

func TestInvoiceService_SweepOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.draft(t)
	_, err := f.svc.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)

	res, err := f.svc.SweepOverdue(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Marked)

	f.svc.now = func() time.Time { return time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC) }
	res, err = f.svc.SweepOverdue(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Marked)
	assert.Equal(t, []string{inv.Number}, res.Numbers)

	got, err := f.svc.GetByID(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "overdue", got.Status)
}

func TestInvoiceService_RenderPDF(t *testing.T) {
	f := newFixture(t)
	inv := f.draft(t)

	out, name, err := f.svc.RenderPDF(context.Background(), f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), out)
	assert.Equal(t, inv.Number+".pdf", name)
	assert.Contains(t, f.renderer.html, "Casa Azul")
	assert.Contains(t, f.renderer.html, inv.Number)
}
