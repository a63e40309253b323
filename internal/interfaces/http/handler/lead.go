package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/application/crm"
)

// LeadHandler serves the CRM pipeline
type LeadHandler struct {
	BaseHandler
	leadService *crm.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *crm.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Create godoc
// @Summary      Create lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        request body CreateLeadRequest true "Lead"
// @Success      201 {object} APIResponse[crm.LeadDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	var req CreateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input, err := req.toInput(tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	lead, err := h.leadService.Create(c.Request.Context(), input)
	respond(&h.BaseHandler, c, http.StatusCreated, lead, err)
}

// GetByID returns one lead
func (h *LeadHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lead, err := h.leadService.GetByID(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, lead, err)
}

// List godoc
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Param        status query string false "Status"
// @Param        source query string false "Source"
// @Param        assigned_to query string false "Assignee"
// @Success      200 {object} APIResponse[[]crm.LeadDTO]
// @Security     BearerAuth
// @Router       /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q LeadListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter, err := q.toFilter()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.leadService.List(c.Request.Context(), tenantID, filter)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update edits a lead
func (h *LeadHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	lead, err := h.leadService.Update(c.Request.Context(), tenantID, id, input)
	respond(&h.BaseHandler, c, http.StatusOK, lead, err)
}

// Assign hands a lead to a user
func (h *LeadHandler) Assign(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req AssignLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, err := parseOptionalUUID("user_id", req.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	lead, err := h.leadService.Assign(c.Request.Context(), tenantID, id, userID)
	respond(&h.BaseHandler, c, http.StatusOK, lead, err)
}

// SetStatus godoc
// @Summary      Move lead in pipeline
// @Description  Closed leads cannot move. Use /won and /lost to close.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID"
// @Param        request body LeadStatusRequest true "Status"
// @Success      200 {object} APIResponse[crm.LeadDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/status [post]
func (h *LeadHandler) SetStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req LeadStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lead, err := h.leadService.Transition(c.Request.Context(), tenantID, id, req.Status)
	respond(&h.BaseHandler, c, http.StatusOK, lead, err)
}

// Win closes a lead as won
func (h *LeadHandler) Win(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req WinLeadRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	bookingID, err := parseOptionalUUID("booking_id", req.BookingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	lead, err := h.leadService.MarkWon(c.Request.Context(), tenantID, id, bookingID)
	respond(&h.BaseHandler, c, http.StatusOK, lead, err)
}

// Lose closes a lead as lost
func (h *LeadHandler) Lose(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req LoseLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lead, err := h.leadService.MarkLost(c.Request.Context(), tenantID, id, req.Reason)
	respond(&h.BaseHandler, c, http.StatusOK, lead, err)
}

// Delete removes a lead
func (h *LeadHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.leadService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Pipeline godoc
// @Summary      Pipeline summary
// @Tags         leads
// @Produce      json
// @Success      200 {object} APIResponse[crm.PipelineDTO]
// @Security     BearerAuth
// @Router       /leads/pipeline [get]
func (h *LeadHandler) Pipeline(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	pipeline, err := h.leadService.Pipeline(c.Request.Context(), tenantID)
	respond(&h.BaseHandler, c, http.StatusOK, pipeline, err)
}
