package invoice

import (
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeInvoiceIssued = "InvoiceIssued"
	EventTypeInvoicePaid   = "InvoicePaid"
	EventTypeInvoiceVoided = "InvoiceVoided"
)

const AggregateTypeInvoice = "Invoice"

// InvoiceEvent carries the amounts of an invoice at the time of the event
type InvoiceEvent struct {
	shared.BaseDomainEvent
	Number        string          `json:"number"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Currency      string          `json:"currency"`
}

// NewInvoiceEvent creates an invoice event of the given type
func NewInvoiceEvent(eventType string, inv *Invoice) *InvoiceEvent {
	return &InvoiceEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeInvoice, inv.ID, inv.TenantID),
		Number:          inv.Number,
		CustomerEmail:   inv.CustomerEmail,
		Total:           inv.Total,
		AmountPaid:      inv.AmountPaid,
		Currency:        inv.Currency,
	}
}
