package handler

import (
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/invoice"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one billed line
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (r InvoiceItemRequest) toInput() invoice.ItemInput {
	return invoice.ItemInput{Description: r.Description, Quantity: r.Quantity, UnitPrice: r.UnitPrice}
}

// CreateInvoiceRequest creates a draft invoice
type CreateInvoiceRequest struct {
	CustomerName   string               `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerEmail  string               `json:"customer_email" binding:"omitempty,email,max=200"`
	Currency       string               `json:"currency" binding:"omitempty,len=3"`
	PropertyID     string               `json:"property_id" binding:"omitempty,uuid"`
	DueDate        string               `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Notes          string               `json:"notes" binding:"omitempty,max=2000"`
	TaxRate        *decimal.Decimal     `json:"tax_rate"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	Items          []InvoiceItemRequest `json:"items" binding:"omitempty,max=200,dive"`
}

func (r CreateInvoiceRequest) toInput(tenantID, actorID uuid.UUID) (invoice.CreateInvoiceInput, error) {
	in := invoice.CreateInvoiceInput{
		TenantID:       tenantID,
		CreatedBy:      actorID,
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		Currency:       r.Currency,
		Notes:          r.Notes,
		TaxRate:        r.TaxRate,
		DiscountAmount: r.DiscountAmount,
		Items:          make([]invoice.ItemInput, len(r.Items)),
	}
	for i, item := range r.Items {
		in.Items[i] = item.toInput()
	}
	var err error
	if in.PropertyID, err = parseOptionalUUID("property_id", r.PropertyID); err != nil {
		return in, err
	}
	if in.DueDate, err = parseOptionalDate("due_date", r.DueDate); err != nil {
		return in, err
	}
	return in, nil
}

// InvoiceFromBookingRequest bills a reservation
type InvoiceFromBookingRequest struct {
	BookingID string           `json:"booking_id" binding:"required,uuid"`
	TaxRate   *decimal.Decimal `json:"tax_rate"`
	DueDate   string           `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Notes     string           `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateInvoiceRequest edits a draft invoice
type UpdateInvoiceRequest struct {
	CustomerName   *string          `json:"customer_name" binding:"omitempty,min=1,max=200"`
	CustomerEmail  *string          `json:"customer_email" binding:"omitempty,email,max=200"`
	DueDate        *string          `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Notes          *string          `json:"notes" binding:"omitempty,max=2000"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
}

// RecordPaymentRequest records money received outside the card gateway
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// RefundRequest refunds part or all of what was paid; zero refunds everything
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" binding:"omitempty,max=500"`
}

// InvoiceListQuery represents query parameters for listing invoices
type InvoiceListQuery struct {
	Keyword    string `form:"keyword" binding:"omitempty,max=100"`
	Status     string `form:"status" binding:"omitempty,oneof=draft issued partially_paid paid overdue void"`
	BookingID  string `form:"booking_id" binding:"omitempty,uuid"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=number status total due_date issued_at created_at"`
	SortDir    string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

func (q InvoiceListQuery) toFilter() (invoice.InvoiceListFilter, error) {
	f := invoice.InvoiceListFilter{
		Search:   q.Keyword,
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.SortBy,
		OrderDir: q.SortDir,
	}
	var err error
	if f.BookingID, err = parseOptionalUUID("booking_id", q.BookingID); err != nil {
		return f, err
	}
	if f.PropertyID, err = parseOptionalUUID("property_id", q.PropertyID); err != nil {
		return f, err
	}
	if f.From, err = parseOptionalDate("from", q.From); err != nil {
		return f, err
	}
	if f.To, err = parseOptionalDate("to", q.To); err != nil {
		return f, err
	}
	return f, nil
}
