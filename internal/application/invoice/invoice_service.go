package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/invoice"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/payment"
	"github.com/hospitality/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentGateway collects and refunds card payments
type PaymentGateway interface {
	CreateIntent(ctx context.Context, in payment.IntentInput) (*payment.Intent, error)
	GetIntent(ctx context.Context, id string) (*payment.Intent, error)
	Refund(ctx context.Context, in payment.RefundInput) (*payment.RefundResult, error)
}

// PDFRenderer turns an HTML document into a PDF
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// TenantLookup loads the issuing tenant
type TenantLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
}

// BookingLookup loads the reservation being billed
type BookingLookup interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*booking.Booking, error)
}

// RoomLookup names the room on booking invoices
type RoomLookup interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Room, error)
}

// Config holds billing defaults
type Config struct {
	PaymentTermsDays int
	DefaultTaxRate   decimal.Decimal
	IntentLockTTL    time.Duration
}

// Deps are the optional collaborators of the invoice service
type Deps struct {
	Tenants     TenantLookup
	Bookings    BookingLookup
	Rooms       RoomLookup
	Gateway     PaymentGateway
	Renderer    PDFRenderer
	Idempotency shared.IdempotencyStore
	Events      shared.EventPublisher
}

// InvoiceService manages billing
type InvoiceService struct {
	repo   invoice.InvoiceRepository
	deps   Deps
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(repo invoice.InvoiceRepository, deps Deps, cfg Config, logger *zap.Logger) *InvoiceService {
	if cfg.PaymentTermsDays <= 0 {
		cfg.PaymentTermsDays = 14
	}
	if cfg.IntentLockTTL <= 0 {
		cfg.IntentLockTTL = time.Minute
	}
	return &InvoiceService{repo: repo, deps: deps, cfg: cfg, logger: logger, now: time.Now}
}

// Create adds a draft invoice with its items
func (s *InvoiceService) Create(ctx context.Context, input CreateInvoiceInput) (_ *InvoiceDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.String(telemetry.AttrTenantID, input.TenantID.String()))
	defer func() { telemetry.End(span, err) }()

	inv, err := s.newDraft(ctx, input.TenantID, input.CustomerName, input.CustomerEmail, input.Currency)
	if err != nil {
		return nil, err
	}
	inv.PropertyID = input.PropertyID
	for _, it := range input.Items {
		if _, err := inv.AddItem(invoice.LineInput{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}); err != nil {
			return nil, err
		}
	}
	if err := inv.SetTaxAndDiscount(s.taxRate(input.TaxRate), input.DiscountAmount); err != nil {
		return nil, err
	}
	if input.DueDate != nil || input.Notes != "" {
		if err := inv.UpdateDetails(inv.CustomerName, inv.CustomerEmail, input.DueDate, input.Notes); err != nil {
			return nil, err
		}
	}
	if input.CreatedBy != uuid.Nil {
		inv.SetCreatedBy(input.CreatedBy)
	}

	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice created",
		zap.String("tenant_id", inv.TenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", inv.Number))

	dto := ToInvoiceDTO(inv)
	return &dto, nil
}

// CreateFromBooking bills a reservation: one line for the stay, priced from the booking total
func (s *InvoiceService) CreateFromBooking(ctx context.Context, input FromBookingInput) (*InvoiceDTO, error) {
	if s.deps.Bookings == nil {
		return nil, shared.NewDomainError("NOT_CONFIGURED", "Booking lookup is not configured")
	}
	b, err := s.deps.Bookings.FindByIDForTenant(ctx, input.TenantID, input.BookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == booking.BookingStatusCancelled {
		return nil, shared.NewInvalidStateError("Cancelled bookings cannot be invoiced")
	}
	if !b.TotalAmount.IsPositive() {
		return nil, shared.NewInvalidStateError("Booking has no amount to invoice")
	}

	existing, err := s.repo.FindByBooking(ctx, input.TenantID, b.ID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Status != invoice.InvoiceStatusVoid {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Booking already has invoice "+existing[i].Number)
		}
	}

	inv, err := s.newDraft(ctx, input.TenantID, b.GuestName, b.GuestEmail, b.Currency)
	if err != nil {
		return nil, err
	}
	inv.LinkBooking(b.ID, b.PropertyID)

	line := s.stayLine(ctx, b)
	if _, err := inv.AddItem(line); err != nil {
		return nil, err
	}
	if err := inv.SetTaxAndDiscount(s.taxRate(input.TaxRate), decimal.Zero); err != nil {
		return nil, err
	}
	if input.DueDate != nil || input.Notes != "" {
		if err := inv.UpdateDetails(inv.CustomerName, inv.CustomerEmail, input.DueDate, input.Notes); err != nil {
			return nil, err
		}
	}
	if input.CreatedBy != uuid.Nil {
		inv.SetCreatedBy(input.CreatedBy)
	}

	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice created from booking",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("booking_reference", b.Reference))

	dto := ToInvoiceDTO(inv)
	return &dto, nil
}

func (s *InvoiceService) stayLine(ctx context.Context, b *booking.Booking) invoice.LineInput {
	nights := b.Nights()
	desc := fmt.Sprintf("Reservation %s, %s to %s", b.Reference, b.CheckIn.Format(time.DateOnly), b.CheckOut.Format(time.DateOnly))
	if b.RoomID != nil && s.deps.Rooms != nil {
		if room, err := s.deps.Rooms.FindByIDForTenant(ctx, b.TenantID, *b.RoomID); err == nil {
			desc = fmt.Sprintf("Room %s, %s to %s (%s)", room.Number, b.CheckIn.Format(time.DateOnly), b.CheckOut.Format(time.DateOnly), b.Reference)
		}
	}
	if nights < 1 || b.RoomID == nil {
		return invoice.LineInput{Description: desc, Quantity: decimal.NewFromInt(1), UnitPrice: b.TotalAmount}
	}
	qty := decimal.NewFromInt(int64(nights))
	unit := b.TotalAmount.Div(qty).Round(2)
	if !unit.Mul(qty).Equal(b.TotalAmount) {
		return invoice.LineInput{Description: desc, Quantity: decimal.NewFromInt(1), UnitPrice: b.TotalAmount}
	}
	return invoice.LineInput{Description: desc + " per night", Quantity: qty, UnitPrice: unit}
}

func (s *InvoiceService) newDraft(ctx context.Context, tenantID uuid.UUID, name, email, currency string) (*invoice.Invoice, error) {
	month := s.now().UTC()
	seq, err := s.repo.NextSequence(ctx, tenantID, month)
	if err != nil {
		return nil, err
	}
	return invoice.NewInvoice(tenantID, invoice.FormatNumber(month, seq), name, email, currency)
}

func (s *InvoiceService) taxRate(rate *decimal.Decimal) decimal.Decimal {
	if rate != nil {
		return *rate
	}
	return s.cfg.DefaultTaxRate
}

// GetByID returns an invoice with its items
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceDTO, error) {
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToInvoiceDTO(inv)
	return &dto, nil
}

// List returns invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, f InvoiceListFilter) (shared.Paginated[InvoiceDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{"status": f.Status},
	}.Normalize()
	if f.BookingID != nil {
		filter.Filters["booking_id"] = *f.BookingID
	}
	if f.PropertyID != nil {
		filter.Filters["property_id"] = *f.PropertyID
	}
	if f.From != nil {
		filter.Filters["from"] = *f.From
	}
	if f.To != nil {
		filter.Filters["to"] = *f.To
	}

	items, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[InvoiceDTO]{}, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[InvoiceDTO]{}, err
	}

	out := make([]InvoiceDTO, len(items))
	for i := range items {
		out[i] = ToInvoiceDTO(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update edits a draft invoice
func (s *InvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateInvoiceInput) (*InvoiceDTO, error) {
	return s.mutate(ctx, tenantID, id, func(inv *invoice.Invoice) error {
		if input.CustomerName != nil || input.CustomerEmail != nil || input.DueDate != nil || input.Notes != nil {
			due := inv.DueDate
			if input.DueDate != nil {
				due = input.DueDate
			}
			if err := inv.UpdateDetails(pick(input.CustomerName, inv.CustomerName), pick(input.CustomerEmail, inv.CustomerEmail), due, pick(input.Notes, inv.Notes)); err != nil {
				return err
			}
		}
		if input.TaxRate != nil || input.DiscountAmount != nil {
			rate, discount := inv.TaxRate, inv.DiscountAmount
			if input.TaxRate != nil {
				rate = *input.TaxRate
			}
			if input.DiscountAmount != nil {
				discount = *input.DiscountAmount
			}
			return inv.SetTaxAndDiscount(rate, discount)
		}
		return nil
	})
}

// AddItem appends a line to a draft
func (s *InvoiceService) AddItem(ctx context.Context, tenantID, id uuid.UUID, item ItemInput) (*InvoiceDTO, error) {
	return s.mutate(ctx, tenantID, id, func(inv *invoice.Invoice) error {
		_, err := inv.AddItem(invoice.LineInput{Description: item.Description, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
		return err
	})
}

// RemoveItem drops a line from a draft
func (s *InvoiceService) RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*InvoiceDTO, error) {
	return s.mutate(ctx, tenantID, id, func(inv *invoice.Invoice) error {
		return inv.RemoveItem(itemID)
	})
}

// Issue finalizes a draft with the configured payment terms
func (s *InvoiceService) Issue(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceDTO, error) {
	return s.mutate(ctx, tenantID, id, func(inv *invoice.Invoice) error {
		return inv.Issue(s.now(), s.cfg.PaymentTermsDays)
	})
}

// RecordPayment applies a manual payment
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal) (*InvoiceDTO, error) {
	return s.mutate(ctx, tenantID, id, func(inv *invoice.Invoice) error {
		return inv.RecordPayment(amount, s.now())
	})
}

// Void cancels an unpaid invoice
func (s *InvoiceService) Void(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceDTO, error) {
	return s.mutate(ctx, tenantID, id, (*invoice.Invoice).Void)
}

func (s *InvoiceService) mutate(ctx context.Context, tenantID, id uuid.UUID, apply func(*invoice.Invoice) error) (*InvoiceDTO, error) {
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(inv); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publish(ctx, inv)
	dto := ToInvoiceDTO(inv)
	return &dto, nil
}

// Delete removes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !inv.CanDelete() {
		return shared.NewInvalidStateError("Only draft invoices can be deleted")
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

// SweepOverdue flags the tenant's issued invoices that are past due
func (s *InvoiceService) SweepOverdue(ctx context.Context, tenantID uuid.UUID) (*SweepResult, error) {
	now := s.now()
	candidates, err := s.repo.FindOverdueCandidates(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}
	result := &SweepResult{Checked: len(candidates), Numbers: []string{}}
	for i := range candidates {
		inv := &candidates[i]
		if !inv.MarkOverdueIfDue(now) {
			continue
		}
		if err := s.repo.Save(ctx, inv); err != nil {
			return nil, err
		}
		result.Marked++
		result.Numbers = append(result.Numbers, inv.Number)
	}
	if result.Marked > 0 {
		s.logger.Info("Invoices marked overdue",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("count", result.Marked))
	}
	return result, nil
}

func (s *InvoiceService) publish(ctx context.Context, inv *invoice.Invoice) {
	if err := shared.PublishPending(ctx, s.deps.Events, inv); err != nil {
		s.logger.Warn("Failed to publish invoice events", zap.Error(err))
	}
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
