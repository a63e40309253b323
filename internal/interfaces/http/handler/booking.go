package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/booking"
)

// BookingHandler serves reservations and availability
type BookingHandler struct {
	BaseHandler
	bookingService *booking.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *booking.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create godoc
// @Summary      Create booking
// @Description  Rejects rooms with an overlapping active booking. Same-day turnover is allowed.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body CreateBookingRequest true "Booking"
// @Success      201 {object} APIResponse[booking.BookingDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.tenantAndUser(c)
	if !ok {
		return
	}
	var req CreateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input, err := req.toInput(tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	b, err := h.bookingService.Create(c.Request.Context(), input)
	respond(&h.BaseHandler, c, http.StatusCreated, b, err)
}

// GetByID godoc
// @Summary      Get booking
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200 {object} APIResponse[booking.BookingDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.bookingService.GetByID(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, b, err)
}

// GetByReference returns a booking by its public reference code
func (h *BookingHandler) GetByReference(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	b, err := h.bookingService.GetByReference(c.Request.Context(), tenantID, c.Param("reference"))
	respond(&h.BaseHandler, c, http.StatusOK, b, err)
}

// List godoc
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Param        status query string false "Status"
// @Param        property_id query string false "Property"
// @Param        from query string false "Stay intersects from (YYYY-MM-DD)"
// @Param        to query string false "Stay intersects to (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]booking.BookingDTO]
// @Security     BearerAuth
// @Router       /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q BookingListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter, err := q.toFilter()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.bookingService.List(c.Request.Context(), tenantID, filter)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update changes an open booking
func (h *BookingHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	b, err := h.bookingService.Update(c.Request.Context(), tenantID, id, input)
	respond(&h.BaseHandler, c, http.StatusOK, b, err)
}

// Confirm moves a pending booking to confirmed
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.bookingService.Confirm)
}

// CheckIn godoc
// @Summary      Check guest in
// @Tags         bookings
// @Param        id path string true "Booking ID"
// @Success      200 {object} APIResponse[booking.BookingDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.bookingService.CheckIn)
}

// CheckOut completes a stay
func (h *BookingHandler) CheckOut(c *gin.Context) {
	h.transition(c, h.bookingService.CheckOut)
}

// NoShow marks a confirmed booking whose guest never arrived
func (h *BookingHandler) NoShow(c *gin.Context) {
	h.transition(c, h.bookingService.MarkNoShow)
}

func (h *BookingHandler) transition(c *gin.Context, apply func(context.Context, uuid.UUID, uuid.UUID) (*booking.BookingDTO, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	b, err := apply(c.Request.Context(), tenantID, id)
	respond(&h.BaseHandler, c, http.StatusOK, b, err)
}

// Cancel cancels a booking that has not started
func (h *BookingHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req CancelBookingRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	b, err := h.bookingService.Cancel(c.Request.Context(), tenantID, id, req.Reason)
	respond(&h.BaseHandler, c, http.StatusOK, b, err)
}

// Delete removes a booking that is no longer active
func (h *BookingHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.bookingService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Availability godoc
// @Summary      Room availability
// @Description  Rooms free for the whole stay [check_in, check_out) with capacity for the guests
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Property ID"
// @Param        check_in query string true "YYYY-MM-DD"
// @Param        check_out query string true "YYYY-MM-DD"
// @Param        guests query int false "Guests" default(1)
// @Success      200 {object} APIResponse[booking.AvailabilityDTO]
// @Security     BearerAuth
// @Router       /properties/{id}/availability [get]
func (h *BookingHandler) Availability(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	propertyID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q AvailabilityQuery
	if !h.bindQuery(c, &q) {
		return
	}
	checkIn, err := parseDate("check_in", q.CheckIn)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	checkOut, err := parseDate("check_out", q.CheckOut)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.bookingService.Availability(c.Request.Context(), tenantID, propertyID, checkIn, checkOut, q.Guests)
	respond(&h.BaseHandler, c, http.StatusOK, result, err)
}
