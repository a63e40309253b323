package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/application/property"
)

// RoomHandler manages the rooms of lodging properties
type RoomHandler struct {
	BaseHandler
	roomService *property.RoomService
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomService *property.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// Create godoc
// @Summary      Add room
// @Description  Restaurants and cafes have no rooms
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        request body CreateRoomRequest true "Room"
// @Success      201 {object} APIResponse[property.RoomDTO]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id}/rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	propertyID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req CreateRoomRequest
	if !h.bindJSON(c, &req) {
		return
	}
	room, err := h.roomService.Create(c.Request.Context(), property.CreateRoomInput{
		TenantID:    tenantID,
		PropertyID:  propertyID,
		Number:      req.Number,
		Name:        req.Name,
		Type:        req.Type,
		Capacity:    req.Capacity,
		BaseRate:    req.BaseRate,
		Currency:    req.Currency,
		Floor:       req.Floor,
		Description: req.Description,
	})
	respond(&h.BaseHandler, c, http.StatusCreated, room, err)
}

// ListByProperty godoc
// @Summary      List rooms of a property
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        type query string false "Room type"
// @Param        status query string false "Room status"
// @Param        min_capacity query int false "Minimum capacity"
// @Success      200 {object} APIResponse[[]property.RoomDTO]
// @Security     BearerAuth
// @Router       /properties/{id}/rooms [get]
func (h *RoomHandler) ListByProperty(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	propertyID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q RoomListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.roomService.ListByProperty(c.Request.Context(), tenantID, propertyID, property.RoomListFilter{
		Type:        q.Type,
		Status:      q.Status,
		MinCapacity: q.MinCapacity,
		Page:        q.Page,
		PageSize:    q.PageSize,
		OrderBy:     q.SortBy,
		OrderDir:    q.SortDir,
	})
	respondPage(&h.BaseHandler, c, page, err)
}

// GetByID returns one room
func (h *RoomHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.roomService.GetByID(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, room, err)
}

// Update changes the non-null fields of a room
func (h *RoomHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if !h.bindJSON(c, &req) {
		return
	}
	room, err := h.roomService.Update(c.Request.Context(), tenantID, id, property.UpdateRoomInput{
		Name:        req.Name,
		Type:        req.Type,
		Capacity:    req.Capacity,
		Floor:       req.Floor,
		BaseRate:    req.BaseRate,
		Description: req.Description,
	})
	respond(&h.BaseHandler, c, http.StatusOK, room, err)
}

// SetStatus godoc
// @Summary      Change room status
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id path string true "Room ID"
// @Param        request body RoomStatusRequest true "Status"
// @Success      200 {object} APIResponse[property.RoomDTO]
// @Security     BearerAuth
// @Router       /rooms/{id}/status [post]
func (h *RoomHandler) SetStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req RoomStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	room, err := h.roomService.SetStatus(c.Request.Context(), tenantID, id, req.Status)
	respond(&h.BaseHandler, c, http.StatusOK, room, err)
}

// Delete removes a room with no live bookings
func (h *RoomHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
