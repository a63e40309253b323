package persistence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/invoice"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var invoiceList = listQuery{
	searchColumns: []string{"number", "customer_name", "customer_email"},
	clauses: map[string]string{
		"status":      "status = ?",
		"booking_id":  "booking_id = ?",
		"property_id": "property_id = ?",
		"from":        "issue_date >= ?",
		"to":          "issue_date < ?",
	},
	sortFields:  InvoiceSortFields,
	defaultSort: "created_at",
}

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant loads an invoice and its items
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	return firstForTenant[invoice.Invoice](ctx, r.db, tenantID, id, "Items")
}

// FindByBooking lists the invoices raised for a booking
func (r *GormInvoiceRepository) FindByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]invoice.Invoice, error) {
	var invoices []invoice.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", orderBySortOrder("Items")).
		Where("tenant_id = ? AND booking_id = ?", tenantID, bookingID).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoice.Invoice, error) {
	return listForTenant[invoice.Invoice](ctx, r.db, invoiceList, tenantID, filter)
}

func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return countForTenant[invoice.Invoice](ctx, r.db, invoiceList, tenantID, filter)
}

// FindOverdueCandidates returns open invoices whose due date is before cutoff
func (r *GormInvoiceRepository) FindOverdueCandidates(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]invoice.Invoice, error) {
	var invoices []invoice.Invoice
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("status IN ?", []invoice.InvoiceStatus{invoice.InvoiceStatusIssued, invoice.InvoiceStatusPartiallyPaid}).
		Where("due_date < ?", cutoff).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// NextSequence returns one past the highest sequence used in the month.
// Numbers are compared by length first so that 10000 sorts after 9999.
func (r *GormInvoiceRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, month time.Time) (int, error) {
	prefix := strings.TrimSuffix(invoice.FormatNumber(month, 0), "0000")

	var numbers []string
	if err := r.db.WithContext(ctx).Model(&invoice.Invoice{}).
		Where("tenant_id = ? AND number LIKE ?", tenantID, prefix+"%").
		Order("LENGTH(number) DESC").
		Order("number DESC").
		Limit(1).
		Pluck("number", &numbers).Error; err != nil {
		return 0, err
	}
	if len(numbers) == 0 {
		return 1, nil
	}
	last := numbers[0]

	seq, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil {
		return 0, fmt.Errorf("parse invoice number %q: %w", last, err)
	}
	return seq + 1, nil
}

// SumPaid totals payments on invoices issued in [from, to)
func (r *GormInvoiceRepository) SumPaid(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&invoice.Invoice{}).
		Select("COALESCE(SUM(amount_paid), 0) as total").
		Where("tenant_id = ? AND status <> ?", tenantID, invoice.InvoiceStatusVoid).
		Where("issue_date >= ? AND issue_date < ?", from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save writes the invoice header and replaces its items in one transaction.
// A header changed by someone else since it was loaded yields ErrConcurrencyConflict.
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveWithLock(tx, inv); err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&invoice.InvoiceItem{}).Error; err != nil {
			return err
		}
		if len(inv.Items) == 0 {
			return nil
		}
		for i := range inv.Items {
			inv.Items[i].InvoiceID = inv.ID
		}
		return tx.Create(&inv.Items).Error
	})
}

// DeleteForTenant deletes an invoice; items go with it via ON DELETE CASCADE
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant[invoice.Invoice](ctx, r.db, tenantID, id)
}

var _ invoice.InvoiceRepository = (*GormInvoiceRepository)(nil)
