package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForTenant loads the invoice with its items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindOverdueCandidates returns issued or partially paid invoices due before the cutoff
	FindOverdueCandidates(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]Invoice, error)
	// NextSequence returns the next number in the month's sequence, starting at 1
	NextSequence(ctx context.Context, tenantID uuid.UUID, month time.Time) (int, error)
	SumPaid(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	// Save persists the invoice and replaces its items
	Save(ctx context.Context, invoice *Invoice) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
