package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// ItemInput is one billed line
type ItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreateInvoiceInput contains input for a draft invoice
type CreateInvoiceInput struct {
	TenantID       uuid.UUID
	CreatedBy      uuid.UUID
	CustomerName   string
	CustomerEmail  string
	Currency       string
	PropertyID     *uuid.UUID
	DueDate        *time.Time
	Notes          string
	TaxRate        *decimal.Decimal
	DiscountAmount decimal.Decimal
	Items          []ItemInput
}

// FromBookingInput contains input for billing a reservation
type FromBookingInput struct {
	TenantID  uuid.UUID
	CreatedBy uuid.UUID
	BookingID uuid.UUID
	TaxRate   *decimal.Decimal
	DueDate   *time.Time
	Notes     string
}

// UpdateInvoiceInput edits a draft; nil fields are unchanged
type UpdateInvoiceInput struct {
	CustomerName   *string
	CustomerEmail  *string
	DueDate        *time.Time
	Notes          *string
	TaxRate        *decimal.Decimal
	DiscountAmount *decimal.Decimal
}

// InvoiceListFilter narrows invoice listings
type InvoiceListFilter struct {
	Search     string
	Status     string
	BookingID  *uuid.UUID
	PropertyID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// InvoiceItemDTO represents a billed line
type InvoiceItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceDTO represents an invoice
type InvoiceDTO struct {
	ID              uuid.UUID        `json:"id"`
	TenantID        uuid.UUID        `json:"tenant_id"`
	Number          string           `json:"number"`
	BookingID       *uuid.UUID       `json:"booking_id,omitempty"`
	PropertyID      *uuid.UUID       `json:"property_id,omitempty"`
	CustomerName    string           `json:"customer_name"`
	CustomerEmail   string           `json:"customer_email,omitempty"`
	Currency        string           `json:"currency"`
	Items           []InvoiceItemDTO `json:"items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	TaxRate         decimal.Decimal  `json:"tax_rate"`
	TaxAmount       decimal.Decimal  `json:"tax_amount"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
	Total           decimal.Decimal  `json:"total"`
	AmountPaid      decimal.Decimal  `json:"amount_paid"`
	Balance         decimal.Decimal  `json:"balance"`
	Status          string           `json:"status"`
	IssueDate       *time.Time       `json:"issue_date,omitempty"`
	DueDate         *time.Time       `json:"due_date,omitempty"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`
	PaymentIntentID string           `json:"payment_intent_id,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// ToInvoiceDTO converts a domain invoice into its DTO
func ToInvoiceDTO(inv *invoice.Invoice) InvoiceDTO {
	items := make([]InvoiceItemDTO, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemDTO{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		}
	}
	return InvoiceDTO{
		ID:              inv.ID,
		TenantID:        inv.TenantID,
		Number:          inv.Number,
		BookingID:       inv.BookingID,
		PropertyID:      inv.PropertyID,
		CustomerName:    inv.CustomerName,
		CustomerEmail:   inv.CustomerEmail,
		Currency:        inv.Currency,
		Items:           items,
		Subtotal:        inv.Subtotal,
		TaxRate:         inv.TaxRate,
		TaxAmount:       inv.TaxAmount,
		DiscountAmount:  inv.DiscountAmount,
		Total:           inv.Total,
		AmountPaid:      inv.AmountPaid,
		Balance:         inv.Balance(),
		Status:          string(inv.Status),
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		PaidAt:          inv.PaidAt,
		PaymentIntentID: inv.PaymentIntentID,
		Notes:           inv.Notes,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.Version,
	}
}

// PaymentIntentDTO is what a client needs to confirm a card payment
type PaymentIntentDTO struct {
	InvoiceID    uuid.UUID       `json:"invoice_id"`
	IntentID     string          `json:"payment_intent_id"`
	ClientSecret string          `json:"client_secret"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// RefundDTO reports a refund
type RefundDTO struct {
	Invoice  InvoiceDTO      `json:"invoice"`
	RefundID string          `json:"refund_id,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
}

// SweepResult reports an overdue sweep
type SweepResult struct {
	Checked int      `json:"checked"`
	Marked  int      `json:"marked"`
	Numbers []string `json:"numbers"`
}
