package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/application/cms"
	"github.com/hospitality/backend/internal/application/concierge"
	"github.com/hospitality/backend/internal/application/crm"
	"github.com/hospitality/backend/internal/application/property"
)

// PublicPropertyQuery filters the public venue listing
type PublicPropertyQuery struct {
	Type     string `form:"type" binding:"omitempty,oneof=hotel resort guesthouse restaurant cafe"`
	City     string `form:"city" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=50"`
}

// PublicLeadRequest is the marketing site's contact form
type PublicLeadRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	Email      string `json:"email" binding:"required_without=Phone,omitempty,email,max=200"`
	Phone      string `json:"phone" binding:"required_without=Email,omitempty,phone"`
	Message    string `json:"message" binding:"omitempty,max=2000"`
	PropertyID string `json:"property_id" binding:"omitempty,uuid"`
}

// PublicChatRequest is one turn of the website chat widget
type PublicChatRequest struct {
	ConversationID string `json:"conversation_id" binding:"omitempty,uuid"`
	PropertyID     string `json:"property_id" binding:"omitempty,uuid"`
	GuestName      string `json:"guest_name" binding:"omitempty,max=200"`
	GuestEmail     string `json:"guest_email" binding:"omitempty,email,max=200"`
	Message        string `json:"message" binding:"required,min=1,max=2000"`
}

// PublicHandler serves the unauthenticated marketing API under /public/:tenant_slug
type PublicHandler struct {
	BaseHandler
	properties *property.PropertyService
	pages      *cms.PageService
	leads      *crm.LeadService
	concierge  *concierge.ConciergeService
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(properties *property.PropertyService, pages *cms.PageService, leads *crm.LeadService, conciergeService *concierge.ConciergeService) *PublicHandler {
	return &PublicHandler{properties: properties, pages: pages, leads: leads, concierge: conciergeService}
}

// ListProperties godoc
// @Summary      Published properties
// @Tags         public
// @Produce      json
// @Param        tenant_slug path string true "Site"
// @Param        type query string false "Property type"
// @Param        city query string false "City"
// @Success      200 {object} APIResponse[[]property.PropertyDTO]
// @Failure      404 {object} ErrorResponse
// @Router       /public/{tenant_slug}/properties [get]
func (h *PublicHandler) ListProperties(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q PublicPropertyQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.properties.List(c.Request.Context(), tenantID, property.PropertyListFilter{
		Type:     q.Type,
		City:     q.City,
		Status:   "active",
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
	})
	respondPage(&h.BaseHandler, c, page, err)
}

// GetProperty returns an active property by slug
func (h *PublicHandler) GetProperty(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	p, err := h.properties.GetPublished(c.Request.Context(), tenantID, c.Param("slug"))
	respond(&h.BaseHandler, c, http.StatusOK, p, err)
}

// GetPage godoc
// @Summary      Published page
// @Tags         public
// @Produce      json
// @Param        tenant_slug path string true "Site"
// @Param        slug path string true "Page slug"
// @Param        locale query string false "Locale" default(en)
// @Success      200 {object} APIResponse[cms.PublicPageDTO]
// @Failure      404 {object} ErrorResponse
// @Router       /public/{tenant_slug}/pages/{slug} [get]
func (h *PublicHandler) GetPage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	page, err := h.pages.GetPublished(c.Request.Context(), tenantID, c.Param("slug"), c.Query("locale"))
	respond(&h.BaseHandler, c, http.StatusOK, page, err)
}

// CaptureLead godoc
// @Summary      Contact form
// @Description  Records a website lead. Either email or phone is required.
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        tenant_slug path string true "Site"
// @Param        request body PublicLeadRequest true "Contact details"
// @Success      201 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /public/{tenant_slug}/leads [post]
func (h *PublicHandler) CaptureLead(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req PublicLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	propertyID, err := parseOptionalUUID("property_id", req.PropertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if _, err := h.leads.CapturePublic(c.Request.Context(), tenantID, propertyID, req.Name, req.Email, req.Phone, req.Message); err != nil {
		h.HandleError(c, err)
		return
	}
	// The lead record itself stays internal
	h.Created(c, MessageData{Message: "Thank you, we will be in touch shortly"})
}

// Chat godoc
// @Summary      Website concierge chat
// @Description  Omit conversation_id to start a new chat
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        tenant_slug path string true "Site"
// @Param        request body PublicChatRequest true "Message"
// @Success      200 {object} APIResponse[concierge.ReplyDTO]
// @Failure      429 {object} ErrorResponse
// @Router       /public/{tenant_slug}/concierge/chat [post]
func (h *PublicHandler) Chat(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req PublicChatRequest
	if !h.bindJSON(c, &req) {
		return
	}
	conversationID, err := parseOptionalUUID("conversation_id", req.ConversationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	propertyID, err := parseOptionalUUID("property_id", req.PropertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	reply, err := h.concierge.PublicChat(c.Request.Context(), concierge.PublicChatInput{
		TenantID:       tenantID,
		ConversationID: conversationID,
		PropertyID:     propertyID,
		GuestName:      req.GuestName,
		GuestEmail:     req.GuestEmail,
		Message:        req.Message,
	})
	respond(&h.BaseHandler, c, http.StatusOK, reply, err)
}
