package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/communication"
)

// CommunicationHandler sends guest messages and manages the calendar
type CommunicationHandler struct {
	BaseHandler
	commService *communication.CommunicationService
}

// NewCommunicationHandler creates a new CommunicationHandler
func NewCommunicationHandler(commService *communication.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{commService: commService}
}

// Execute godoc
// @Summary      Unified communication action
// @Description  Runs send_email, send_whatsapp or create_event. Sends honour the Idempotency-Key header.
// @Tags         communication
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplication key"
// @Param        request body CommunicationActionRequest true "Action"
// @Success      201 {object} APIResponse[communication.ActionResult]
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /communication [post]
func (h *CommunicationHandler) Execute(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CommunicationActionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input := communication.ActionInput{
		TenantID:       tenantID,
		Action:         req.Action,
		To:             req.To,
		Subject:        req.Subject,
		Body:           req.Body,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	}
	if req.Event != nil {
		event, err := req.Event.toInput(tenantID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		input.Event = event
	}
	result, err := h.commService.Execute(c.Request.Context(), input)
	respond(&h.BaseHandler, c, http.StatusCreated, result, err)
}

// SendEmail godoc
// @Summary      Send email
// @Tags         communication
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplication key"
// @Param        request body SendEmailRequest true "Email"
// @Success      201 {object} APIResponse[communication.MessageDTO]
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /communication/email [post]
func (h *CommunicationHandler) SendEmail(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req SendEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}
	relatedID, err := parseOptionalUUID("related_id", req.RelatedID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	msg, err := h.commService.SendEmail(c.Request.Context(), communication.SendEmailInput{
		TenantID:       tenantID,
		To:             req.To,
		Subject:        req.Subject,
		Body:           req.Body,
		RelatedType:    req.RelatedType,
		RelatedID:      relatedID,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	respond(&h.BaseHandler, c, http.StatusCreated, msg, err)
}

// SendWhatsApp godoc
// @Summary      Send WhatsApp message
// @Tags         communication
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplication key"
// @Param        request body SendWhatsAppRequest true "Message"
// @Success      201 {object} APIResponse[communication.MessageDTO]
// @Security     BearerAuth
// @Router       /communication/whatsapp [post]
func (h *CommunicationHandler) SendWhatsApp(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req SendWhatsAppRequest
	if !h.bindJSON(c, &req) {
		return
	}
	relatedID, err := parseOptionalUUID("related_id", req.RelatedID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	msg, err := h.commService.SendWhatsApp(c.Request.Context(), communication.SendWhatsAppInput{
		TenantID:       tenantID,
		To:             req.To,
		Body:           req.Body,
		RelatedType:    req.RelatedType,
		RelatedID:      relatedID,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	respond(&h.BaseHandler, c, http.StatusCreated, msg, err)
}

// ListMessages lists the outbound message log
func (h *CommunicationHandler) ListMessages(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q MessageListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.commService.ListMessages(c.Request.Context(), tenantID, communication.MessageListFilter{
		Search:      q.Keyword,
		Channel:     q.Channel,
		Status:      q.Status,
		RelatedType: q.RelatedType,
		Page:        q.Page,
		PageSize:    q.PageSize,
		OrderBy:     q.SortBy,
		OrderDir:    q.SortDir,
	})
	respondPage(&h.BaseHandler, c, page, err)
}

// GetMessage returns one message with its delivery record
func (h *CommunicationHandler) GetMessage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	msg, err := h.commService.GetMessage(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, msg, err)
}

// RetryMessage re-sends a failed message
func (h *CommunicationHandler) RetryMessage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	msg, err := h.commService.Retry(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, msg, err)
}

// CreateEvent schedules a calendar entry
func (h *CommunicationHandler) CreateEvent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input, err := req.toInput(tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	event, err := h.commService.CreateEvent(c.Request.Context(), input)
	respond(&h.BaseHandler, c, http.StatusCreated, event, err)
}

// ListEvents lists calendar entries
func (h *CommunicationHandler) ListEvents(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q EventListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	var propertyID, bookingID *uuid.UUID
	var err error
	if propertyID, err = parseOptionalUUID("property_id", q.PropertyID); err != nil {
		h.HandleError(c, err)
		return
	}
	if bookingID, err = parseOptionalUUID("booking_id", q.BookingID); err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.commService.ListEvents(c.Request.Context(), tenantID, communication.EventListFilter{
		Search:     q.Keyword,
		Status:     q.Status,
		PropertyID: propertyID,
		BookingID:  bookingID,
		Page:       q.Page,
		PageSize:   q.PageSize,
		OrderBy:    q.SortBy,
		OrderDir:   q.SortDir,
	})
	respondPage(&h.BaseHandler, c, page, err)
}

// CancelEvent cancels a scheduled entry
func (h *CommunicationHandler) CancelEvent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.commService.CancelEvent(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, event, err)
}

// CalendarFeed godoc
// @Summary      iCalendar feed
// @Description  Events from 30 days ago to one year ahead, as text/calendar
// @Tags         communication
// @Produce      text/calendar
// @Success      200 {string} string
// @Security     BearerAuth
// @Router       /communication/calendar.ics [get]
func (h *CommunicationHandler) CalendarFeed(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	feed, err := h.commService.CalendarFeed(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", feed)
}
