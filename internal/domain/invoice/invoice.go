package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the billing lifecycle status
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusIssued        InvoiceStatus = "issued"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusVoid          InvoiceStatus = "void"
)

// AcceptsPayment reports whether payments can be recorded in this status
func (s InvoiceStatus) AcceptsPayment() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusPartiallyPaid || s == InvoiceStatusOverdue
}

const maxItems = 200

var hundred = decimal.NewFromInt(100)

// InvoiceItem is a billed line
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SortOrder   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Invoice is a bill issued to a guest or customer
type Invoice struct {
	shared.TenantAggregateRoot
	Number          string          `gorm:"type:varchar(30);not null"`
	BookingID       *uuid.UUID      `gorm:"type:uuid;index"`
	PropertyID      *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName    string          `gorm:"type:varchar(200);not null"`
	CustomerEmail   string          `gorm:"type:varchar(200)"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status          InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	IssueDate       *time.Time      `gorm:"type:date"`
	DueDate         *time.Time      `gorm:"type:date;index"`
	PaidAt          *time.Time
	PaymentIntentID string `gorm:"type:varchar(100)"`
	PaidIntentID    string `gorm:"type:varchar(100)"`
	Notes           string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// FormatNumber builds INV-YYYYMM-NNNN from the month and a per-month sequence
func FormatNumber(month time.Time, seq int) string {
	return fmt.Sprintf("INV-%s-%04d", month.Format("200601"), seq)
}

// LineInput describes a line to add
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// NewInvoice creates a draft invoice
func NewInvoice(tenantID uuid.UUID, number, customerName, customerEmail, currency string) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number is required")
	}
	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		Currency:            "USD",
		Status:              InvoiceStatusDraft,
		Subtotal:            decimal.Zero,
		TaxRate:             decimal.Zero,
		TaxAmount:           decimal.Zero,
		DiscountAmount:      decimal.Zero,
		Total:               decimal.Zero,
		AmountPaid:          decimal.Zero,
	}
	if err := inv.setCustomer(customerName, customerEmail); err != nil {
		return nil, err
	}
	if currency != "" {
		if len(currency) != 3 {
			return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
		}
		inv.Currency = strings.ToUpper(currency)
	}
	return inv, nil
}

// UpdateDetails edits customer, terms and notes on a draft
func (inv *Invoice) UpdateDetails(customerName, customerEmail string, dueDate *time.Time, notes string) error {
	if err := inv.requireDraft(); err != nil {
		return err
	}
	if err := inv.setCustomer(customerName, customerEmail); err != nil {
		return err
	}
	inv.DueDate = dueDate
	inv.Notes = shared.Truncate(shared.SanitizeString(notes), 2000)
	inv.MarkChanged()
	return nil
}

// LinkBooking attaches the booking and property the invoice bills for
func (inv *Invoice) LinkBooking(bookingID, propertyID uuid.UUID) {
	inv.BookingID = &bookingID
	inv.PropertyID = &propertyID
}

// AddItem appends a line and recomputes totals
func (inv *Invoice) AddItem(in LineInput) (*InvoiceItem, error) {
	if err := inv.requireDraft(); err != nil {
		return nil, err
	}
	if len(inv.Items) >= maxItems {
		return nil, shared.NewDomainError("TOO_MANY_ITEMS", "An invoice cannot have more than 200 items")
	}
	desc := shared.SanitizeString(in.Description)
	if desc == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item description is required")
	}
	if !in.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_ITEM", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ITEM", "Unit price cannot be negative")
	}
	item := InvoiceItem{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   inv.ID,
		Description: shared.Truncate(desc, 500),
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice.Round(2),
		Amount:      in.Quantity.Mul(in.UnitPrice).Round(2),
		SortOrder:   len(inv.Items),
	}
	inv.Items = append(inv.Items, item)
	inv.Recalculate()
	inv.MarkChanged()
	return &inv.Items[len(inv.Items)-1], nil
}

// RemoveItem drops a line and recomputes totals
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if err := inv.requireDraft(); err != nil {
		return err
	}
	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			inv.Recalculate()
			inv.MarkChanged()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetTaxAndDiscount sets the tax rate (percent) and the flat discount
func (inv *Invoice) SetTaxAndDiscount(taxRate, discount decimal.Decimal) error {
	if err := inv.requireDraft(); err != nil {
		return err
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	inv.TaxRate = taxRate
	inv.DiscountAmount = discount.Round(2)
	inv.Recalculate()
	if inv.DiscountAmount.GreaterThan(inv.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}
	inv.MarkChanged()
	return nil
}

// Recalculate derives subtotal, tax and total from the items.
// tax = (subtotal - discount) * rate / 100, all rounded to 2 places.
func (inv *Invoice) Recalculate() {
	subtotal := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(it.Amount)
	}
	inv.Subtotal = subtotal.Round(2)
	taxable := inv.Subtotal.Sub(inv.DiscountAmount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	inv.TaxAmount = taxable.Mul(inv.TaxRate).Div(hundred).Round(2)
	inv.Total = taxable.Add(inv.TaxAmount).Round(2)
}

// Balance returns the amount still owed
func (inv *Invoice) Balance() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

// Issue finalizes a draft. Due date defaults to issue date plus the given terms.
func (inv *Invoice) Issue(now time.Time, termsDays int) error {
	if err := inv.requireDraft(); err != nil {
		return err
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Cannot issue an invoice without items")
	}
	issue := now.UTC().Truncate(24 * time.Hour)
	inv.IssueDate = &issue
	if inv.DueDate == nil {
		due := issue.AddDate(0, 0, termsDays)
		inv.DueDate = &due
	}
	inv.Status = InvoiceStatusIssued
	inv.MarkChanged()
	inv.AddDomainEvent(NewInvoiceEvent(EventTypeInvoiceIssued, inv))
	return nil
}

// RecordPayment applies a payment; amount paid can never exceed the total
func (inv *Invoice) RecordPayment(amount decimal.Decimal, now time.Time) error {
	if !inv.Status.AcceptsPayment() {
		return shared.NewInvalidStateError("Invoice in status " + string(inv.Status) + " cannot accept payments")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	amount = amount.Round(2)
	if inv.AmountPaid.Add(amount).GreaterThan(inv.Total) {
		return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the outstanding balance of "+inv.Balance().StringFixed(2))
	}
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	if inv.AmountPaid.Equal(inv.Total) {
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoiceEvent(EventTypeInvoicePaid, inv))
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}
	inv.MarkChanged()
	return nil
}

// ApplyIntentPayment records the amount captured by the current payment
// intent. An intent is applied at most once, refunds included.
func (inv *Invoice) ApplyIntentPayment(intentID string, amount decimal.Decimal, now time.Time) error {
	if intentID == "" || intentID != inv.PaymentIntentID {
		return shared.NewInvalidStateError("Payment intent does not belong to this invoice")
	}
	if intentID == inv.PaidIntentID {
		return shared.NewDomainError("PAYMENT_ALREADY_APPLIED", "Payment "+intentID+" has already been recorded")
	}
	if err := inv.RecordPayment(amount, now); err != nil {
		return err
	}
	inv.PaidIntentID = intentID
	return nil
}

// Refund reverses part of the collected amount. An overdue invoice stays overdue.
func (inv *Invoice) Refund(amount decimal.Decimal) error {
	if inv.Status == InvoiceStatusVoid || !inv.AmountPaid.IsPositive() {
		return shared.NewInvalidStateError("Only invoices with payments can be refunded")
	}
	if !amount.IsPositive() || amount.GreaterThan(inv.AmountPaid) {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund must be positive and no more than the amount paid")
	}
	inv.AmountPaid = inv.AmountPaid.Sub(amount.Round(2))
	inv.PaidAt = nil
	switch {
	case inv.Status == InvoiceStatusOverdue:
	case inv.AmountPaid.IsZero():
		inv.Status = InvoiceStatusIssued
	default:
		inv.Status = InvoiceStatusPartiallyPaid
	}
	inv.MarkChanged()
	return nil
}

// SetPaymentIntent records the payment provider's intent ID
func (inv *Invoice) SetPaymentIntent(id string) {
	inv.PaymentIntentID = id
	inv.MarkChanged()
}

// Void cancels an invoice that has not collected any money
func (inv *Invoice) Void() error {
	if inv.Status == InvoiceStatusVoid {
		return shared.NewInvalidStateError("Invoice is already void")
	}
	if inv.AmountPaid.IsPositive() {
		return shared.NewInvalidStateError("Invoices with payments cannot be voided")
	}
	inv.Status = InvoiceStatusVoid
	inv.MarkChanged()
	inv.AddDomainEvent(NewInvoiceEvent(EventTypeInvoiceVoided, inv))
	return nil
}

// MarkOverdueIfDue flags an issued or partially paid invoice past its due date
func (inv *Invoice) MarkOverdueIfDue(now time.Time) bool {
	if inv.Status != InvoiceStatusIssued && inv.Status != InvoiceStatusPartiallyPaid {
		return false
	}
	if inv.DueDate == nil || !now.After(inv.DueDate.Add(24*time.Hour)) {
		return false
	}
	inv.Status = InvoiceStatusOverdue
	inv.MarkChanged()
	return true
}

// CanDelete reports whether the invoice can be removed
func (inv *Invoice) CanDelete() bool {
	return inv.Status == InvoiceStatusDraft
}

func (inv *Invoice) requireDraft() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewInvalidStateError("Only draft invoices can be modified")
	}
	return nil
}

func (inv *Invoice) setCustomer(name, email string) error {
	name = shared.SanitizeString(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	email = strings.TrimSpace(email)
	if email != "" && !shared.IsValidEmail(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid customer email")
	}
	inv.CustomerName = shared.Truncate(name, 200)
	inv.CustomerEmail = shared.NormalizeEmail(email)
	return nil
}
