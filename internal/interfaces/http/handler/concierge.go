package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/application/concierge"
)

// StartConversationRequest opens a staff-side concierge chat
type StartConversationRequest struct {
	PropertyID string `json:"property_id" binding:"omitempty,uuid"`
	GuestName  string `json:"guest_name" binding:"omitempty,max=200"`
	GuestEmail string `json:"guest_email" binding:"omitempty,email,max=200"`
	Channel    string `json:"channel" binding:"omitempty,oneof=web whatsapp"`
	Message    string `json:"message" binding:"omitempty,max=4000"`
}

// ChatMessageRequest is one guest turn
type ChatMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4000"`
}

// ConversationListQuery represents query parameters for listing conversations
type ConversationListQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=open closed"`
	Channel    string `form:"channel" binding:"omitempty,oneof=web whatsapp"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=created_at updated_at"`
	SortDir    string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// ConciergeHandler serves the AI concierge conversations
type ConciergeHandler struct {
	BaseHandler
	conciergeService *concierge.ConciergeService
}

// NewConciergeHandler creates a new ConciergeHandler
func NewConciergeHandler(conciergeService *concierge.ConciergeService) *ConciergeHandler {
	return &ConciergeHandler{conciergeService: conciergeService}
}

// Start godoc
// @Summary      Start conversation
// @Tags         concierge
// @Accept       json
// @Produce      json
// @Param        request body StartConversationRequest true "Conversation"
// @Success      201 {object} APIResponse[concierge.ConversationDTO]
// @Security     BearerAuth
// @Router       /concierge/conversations [post]
func (h *ConciergeHandler) Start(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req StartConversationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	propertyID, err := parseOptionalUUID("property_id", req.PropertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	conv, err := h.conciergeService.Start(c.Request.Context(), concierge.StartConversationInput{
		TenantID:   tenantID,
		PropertyID: propertyID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		Channel:    req.Channel,
		Message:    req.Message,
	})
	respond(&h.BaseHandler, c, http.StatusCreated, conv, err)
}

// List lists conversations
func (h *ConciergeHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ConversationListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	propertyID, err := parseOptionalUUID("property_id", q.PropertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.conciergeService.List(c.Request.Context(), tenantID, concierge.ConversationListFilter{
		Status:     q.Status,
		Channel:    q.Channel,
		PropertyID: propertyID,
		Page:       q.Page,
		PageSize:   q.PageSize,
		OrderBy:    q.SortBy,
		OrderDir:   q.SortDir,
	})
	respondPage(&h.BaseHandler, c, page, err)
}

// GetByID returns a conversation with its transcript
func (h *ConciergeHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	conv, err := h.conciergeService.GetByID(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, conv, err)
}

// SendMessage godoc
// @Summary      Ask the concierge
// @Description  Answers from the model, or from property facts when the model is unavailable
// @Tags         concierge
// @Accept       json
// @Produce      json
// @Param        id path string true "Conversation ID"
// @Param        request body ChatMessageRequest true "Message"
// @Success      200 {object} APIResponse[concierge.ReplyDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /concierge/conversations/{id}/messages [post]
func (h *ConciergeHandler) SendMessage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ChatMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	reply, err := h.conciergeService.SendMessage(c.Request.Context(), tenantID, id, req.Content)
	respond(&h.BaseHandler, c, http.StatusOK, reply, err)
}

// Close ends a conversation
func (h *ConciergeHandler) Close(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	conv, err := h.conciergeService.Close(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, conv, err)
}
