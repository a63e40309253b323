package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/property"
	"github.com/hospitality/backend/internal/interfaces/http/dto"
)

// PropertyHandler manages the venues of a tenant
type PropertyHandler struct {
	BaseHandler
	propertyService *property.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *property.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// Create godoc
// @Summary      Create property
// @Description  New properties start in draft and are hidden from the public site until activated
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body CreatePropertyRequest true "Property"
// @Success      201 {object} APIResponse[property.PropertyDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	var req CreatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.propertyService.Create(c.Request.Context(), req.toInput(tenantID, userID))
	respond(&h.BaseHandler, c, http.StatusCreated, p, err)
}

// CreateHotel godoc
// @Summary      Create hotel
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body CreateHotelRequest true "Hotel"
// @Success      201 {object} APIResponse[property.PropertyDTO]
// @Security     BearerAuth
// @Router       /hotels [post]
func (h *PropertyHandler) CreateHotel(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	var req CreateHotelRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.propertyService.Create(c.Request.Context(), property.CreatePropertyInput{
		TenantID:     tenantID,
		CreatedBy:    userID,
		Code:         req.Code,
		Name:         req.Name,
		Type:         "hotel",
		Description:  req.Description,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		Phone:        req.Phone,
		Email:        req.Email,
		StarRating:   req.StarRating,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
		Amenities:    req.Amenities,
	})
	respond(&h.BaseHandler, c, http.StatusCreated, p, err)
}

// GetByID godoc
// @Summary      Get property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID"
// @Success      200 {object} APIResponse[property.PropertyDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [get]
func (h *PropertyHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.propertyService.GetByID(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, p, err)
}

// List godoc
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        keyword query string false "Search code, name or city"
// @Param        type query string false "Property type"
// @Param        status query string false "Status"
// @Param        city query string false "City"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]property.PropertyDTO]
// @Security     BearerAuth
// @Router       /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	h.list(c, "")
}

// ListHotels lists the lodging properties of type hotel
func (h *PropertyHandler) ListHotels(c *gin.Context) {
	h.list(c, "hotel")
}

// ListRestaurants lists the properties of type restaurant
func (h *PropertyHandler) ListRestaurants(c *gin.Context) {
	h.list(c, "restaurant")
}

func (h *PropertyHandler) list(c *gin.Context, fixedType string) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q PropertyListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter := q.toFilter()
	if fixedType != "" {
		filter.Type = fixedType
	}
	page, err := h.propertyService.List(c.Request.Context(), tenantID, filter)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @Summary      Update property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        request body UpdatePropertyRequest true "Changes"
// @Success      200 {object} APIResponse[property.PropertyDTO]
// @Security     BearerAuth
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.propertyService.Update(c.Request.Context(), tenantID, id, req.toInput())
	respond(&h.BaseHandler, c, http.StatusOK, p, err)
}

// Activate publishes a property
func (h *PropertyHandler) Activate(c *gin.Context) {
	h.transition(c, h.propertyService.Activate)
}

// Deactivate hides a property without archiving it
func (h *PropertyHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.propertyService.Deactivate)
}

// Archive retires a property; it fails while bookings are active
func (h *PropertyHandler) Archive(c *gin.Context) {
	h.transition(c, h.propertyService.Archive)
}

func (h *PropertyHandler) transition(c *gin.Context, apply func(context.Context, uuid.UUID, uuid.UUID) (*property.PropertyDTO, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := apply(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, p, err)
}

// Delete godoc
// @Summary      Delete property
// @Tags         properties
// @Param        id path string true "Property ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.propertyService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadCover godoc
// @Summary      Upload cover photo
// @Description  JPEG, PNG or WebP up to 10 MB. Replaces the previous cover.
// @Tags         properties
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        file formData file true "Image"
// @Success      200 {object} APIResponse[property.PropertyDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id}/cover [post]
func (h *PropertyHandler) UploadCover(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Multipart field \"file\" is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.BadRequest(c, "Unreadable upload")
		return
	}
	defer f.Close()

	p, err := h.propertyService.UploadCover(c.Request.Context(), tenantID, id, property.CoverUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}, f)
	respond(&h.BaseHandler, c, http.StatusOK, p, err)
}
