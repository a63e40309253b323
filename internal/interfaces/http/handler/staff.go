package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/staff"
)

// StaffHandler manages employees
type StaffHandler struct {
	BaseHandler
	staffService *staff.StaffService
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staffService *staff.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// Create godoc
// @Summary      Hire staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        request body CreateStaffRequest true "Staff member"
// @Success      201 {object} APIResponse[staff.StaffDTO]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	var req CreateStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input, err := req.toInput(tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	member, err := h.staffService.Create(c.Request.Context(), input)
	respond(&h.BaseHandler, c, http.StatusCreated, member, err)
}

// GetByID returns one staff member
func (h *StaffHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	member, err := h.staffService.GetByID(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, member, err)
}

// List godoc
// @Summary      List staff
// @Tags         staff
// @Produce      json
// @Param        department query string false "Department"
// @Param        status query string false "Status"
// @Param        property_id query string false "Property"
// @Success      200 {object} APIResponse[[]staff.StaffDTO]
// @Security     BearerAuth
// @Router       /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q StaffListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	propertyID, err := parseOptionalUUID("property_id", q.PropertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.staffService.List(c.Request.Context(), tenantID, staff.StaffListFilter{
		Search:         q.Keyword,
		Department:     q.Department,
		Status:         q.Status,
		EmploymentType: q.EmploymentType,
		PropertyID:     propertyID,
		Page:           q.Page,
		PageSize:       q.PageSize,
		OrderBy:        q.SortBy,
		OrderDir:       q.SortDir,
	})
	respondPage(&h.BaseHandler, c, page, err)
}

// Update changes a staff member's record
func (h *StaffHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	member, err := h.staffService.Update(c.Request.Context(), tenantID, id, input)
	respond(&h.BaseHandler, c, http.StatusOK, member, err)
}

// Assign godoc
// @Summary      Assign staff member to property
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id path string true "Staff ID"
// @Param        request body AssignStaffRequest true "Property (empty to unassign)"
// @Success      200 {object} APIResponse[staff.StaffDTO]
// @Security     BearerAuth
// @Router       /staff/{id}/assign [post]
func (h *StaffHandler) Assign(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req AssignStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	propertyID, err := parseOptionalUUID("property_id", req.PropertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	member, err := h.staffService.AssignToProperty(c.Request.Context(), tenantID, id, propertyID)
	respond(&h.BaseHandler, c, http.StatusOK, member, err)
}

// Leave puts an active staff member on leave
func (h *StaffHandler) Leave(c *gin.Context) {
	h.transition(c, h.staffService.PutOnLeave)
}

// Reactivate returns a staff member from leave
func (h *StaffHandler) Reactivate(c *gin.Context) {
	h.transition(c, h.staffService.Reactivate)
}

func (h *StaffHandler) transition(c *gin.Context, apply func(context.Context, uuid.UUID, uuid.UUID) (*staff.StaffDTO, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	member, err := apply(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, member, err)
}

// Terminate ends employment
func (h *StaffHandler) Terminate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req TerminateStaffRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	at, err := parseOptionalDate("date", req.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	member, err := h.staffService.Terminate(c.Request.Context(), tenantID, id, at)
	respond(&h.BaseHandler, c, http.StatusOK, member, err)
}

// Delete removes a staff record
func (h *StaffHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.staffService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
