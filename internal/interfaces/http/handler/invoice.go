package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/invoice"
)

// InvoiceHandler serves billing, card payments and PDF rendering
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoice.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoice.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create godoc
// @Summary      Create invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[invoice.InvoiceDTO]
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	var req CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input, err := req.toInput(tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	inv, err := h.invoiceService.Create(c.Request.Context(), input)
	respond(&h.BaseHandler, c, http.StatusCreated, inv, err)
}

// CreateFromBooking godoc
// @Summary      Invoice a booking
// @Description  Bills the stay at the room rate, nights times base rate, with the tenant's default tax
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body InvoiceFromBookingRequest true "Booking"
// @Success      201 {object} APIResponse[invoice.InvoiceDTO]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/from-booking [post]
func (h *InvoiceHandler) CreateFromBooking(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	var req InvoiceFromBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	bookingID, err := parseUUID("booking_id", req.BookingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	dueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	inv, err := h.invoiceService.CreateFromBooking(c.Request.Context(), invoice.FromBookingInput{
		TenantID:  tenantID,
		CreatedBy: userID,
		BookingID: bookingID,
		TaxRate:   req.TaxRate,
		DueDate:   dueDate,
		Notes:     req.Notes,
	})
	respond(&h.BaseHandler, c, http.StatusCreated, inv, err)
}

// GetByID returns one invoice with its items
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, inv, err)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        status query string false "Status"
// @Param        booking_id query string false "Booking"
// @Param        from query string false "Issued from (YYYY-MM-DD)"
// @Param        to query string false "Issued before (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]invoice.InvoiceDTO]
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q InvoiceListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter, err := q.toFilter()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update edits a draft
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	dueDate, err := parseDatePtr("due_date", req.DueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	inv, err := h.invoiceService.Update(c.Request.Context(), tenantID, id, invoice.UpdateInvoiceInput{
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		DueDate:        dueDate,
		Notes:          req.Notes,
		TaxRate:        req.TaxRate,
		DiscountAmount: req.DiscountAmount,
	})
	respond(&h.BaseHandler, c, http.StatusOK, inv, err)
}

// AddItem appends a line to a draft
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req InvoiceItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.AddItem(c.Request.Context(), tenantID, id, req.toInput())
	respond(&h.BaseHandler, c, http.StatusOK, inv, err)
}

// RemoveItem drops a line from a draft
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "item_id")
	if !ok {
		return
	}
	inv, err := h.invoiceService.RemoveItem(c.Request.Context(), tenantID, id, itemID)
	respond(&h.BaseHandler, c, http.StatusOK, inv, err)
}

// Issue godoc
// @Summary      Issue invoice
// @Description  Freezes the lines and sets the issue date
// @Tags         invoices
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[invoice.InvoiceDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/issue [post]
func (h *InvoiceHandler) Issue(c *gin.Context) {
	h.mutate(c, h.invoiceService.Issue)
}

// Void cancels an unpaid invoice
func (h *InvoiceHandler) Void(c *gin.Context) {
	h.mutate(c, h.invoiceService.Void)
}

// ConfirmPayment settles an invoice whose card payment succeeded
func (h *InvoiceHandler) ConfirmPayment(c *gin.Context) {
	h.mutate(c, h.invoiceService.ConfirmPayment)
}

func (h *InvoiceHandler) mutate(c *gin.Context, apply func(context.Context, uuid.UUID, uuid.UUID) (*invoice.InvoiceDTO, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	inv, err := apply(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, inv, err)
}

// RecordPayment godoc
// @Summary      Record payment
// @Description  Payments above the balance due are rejected with ERR_OVERPAYMENT
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body RecordPaymentRequest true "Amount"
// @Success      200 {object} APIResponse[invoice.InvoiceDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.RecordPayment(c.Request.Context(), tenantID, id, req.Amount)
	respond(&h.BaseHandler, c, http.StatusOK, inv, err)
}

// SweepOverdue marks issued invoices past their due date as overdue
func (h *InvoiceHandler) SweepOverdue(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	result, err := h.invoiceService.SweepOverdue(c.Request.Context(), tenantID)
	respond(&h.BaseHandler, c, http.StatusOK, result, err)
}

// CreatePaymentIntent godoc
// @Summary      Start card payment
// @Description  Creates a Stripe payment intent for the balance due. 503 when payments are not configured.
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[invoice.PaymentIntentDTO]
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payment-intent [post]
func (h *InvoiceHandler) CreatePaymentIntent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	intent, err := h.invoiceService.CreatePaymentIntent(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, intent, err)
}

// Refund returns money to the customer
func (h *InvoiceHandler) Refund(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req RefundRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	refund, err := h.invoiceService.Refund(c.Request.Context(), tenantID, id, req.Amount, req.Reason)
	respond(&h.BaseHandler, c, http.StatusOK, refund, err)
}

// PDF godoc
// @Summary      Download invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID"
// @Success      200 {file} file
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.invoiceService.RenderPDF(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Delete removes a draft invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
