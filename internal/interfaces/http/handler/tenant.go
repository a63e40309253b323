package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/identity"
)

// TenantHandler serves the platform-level tenant endpoints (super admin only)
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identity.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Create godoc
// @Summary      Create tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body CreateTenantRequest true "Tenant"
// @Success      201 {object} APIResponse[identity.TenantDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.Create(c.Request.Context(), req.toInput())
	respond(&h.BaseHandler, c, http.StatusCreated, tenant, err)
}

// GetByID godoc
// @Summary      Get tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tenant, err := h.tenantService.GetByID(c.Request.Context(), id)
	respond(&h.BaseHandler, c, http.StatusOK, tenant, err)
}

// List godoc
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Param        keyword query string false "Search code, name or slug"
// @Param        status query string false "Status filter"
// @Param        plan query string false "Plan filter"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]identity.TenantDTO]
// @Security     BearerAuth
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var q TenantListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.tenantService.List(c.Request.Context(), identity.TenantListFilter{
		Search:   q.Keyword,
		Status:   q.Status,
		Plan:     q.Plan,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.SortBy,
		OrderDir: q.SortDir,
	})
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @Summary      Update tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body UpdateTenantRequest true "Changes"
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Security     BearerAuth
// @Router       /tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.Update(c.Request.Context(), id, req.toInput())
	respond(&h.BaseHandler, c, http.StatusOK, tenant, err)
}

// Activate godoc
// @Summary      Activate tenant
// @Tags         tenants
// @Param        id path string true "Tenant ID"
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Security     BearerAuth
// @Router       /tenants/{id}/activate [post]
func (h *TenantHandler) Activate(c *gin.Context) {
	h.transition(c, h.tenantService.Activate)
}

// Deactivate godoc
// @Summary      Deactivate tenant
// @Tags         tenants
// @Param        id path string true "Tenant ID"
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Security     BearerAuth
// @Router       /tenants/{id}/deactivate [post]
func (h *TenantHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.tenantService.Deactivate)
}

// Suspend godoc
// @Summary      Suspend tenant
// @Tags         tenants
// @Param        id path string true "Tenant ID"
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Security     BearerAuth
// @Router       /tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	h.transition(c, h.tenantService.Suspend)
}

func (h *TenantHandler) transition(c *gin.Context, apply func(context.Context, uuid.UUID) (*identity.TenantDTO, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tenant, err := apply(c.Request.Context(), id)
	respond(&h.BaseHandler, c, http.StatusOK, tenant, err)
}

// Delete godoc
// @Summary      Delete tenant
// @Tags         tenants
// @Param        id path string true "Tenant ID"
// @Success      204
// @Security     BearerAuth
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.tenantService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetStats godoc
// @Summary      Tenant counts by status
// @Tags         tenants
// @Produce      json
// @Success      200 {object} APIResponse[identity.TenantStatsDTO]
// @Security     BearerAuth
// @Router       /tenants/stats [get]
func (h *TenantHandler) GetStats(c *gin.Context) {
	stats, err := h.tenantService.Stats(c.Request.Context())
	respond(&h.BaseHandler, c, http.StatusOK, stats, err)
}
