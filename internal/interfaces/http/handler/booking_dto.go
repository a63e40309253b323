package handler

import (
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/booking"
	"github.com/shopspring/decimal"
)

// CreateBookingRequest makes a reservation. Dates are YYYY-MM-DD; check-out is exclusive.
type CreateBookingRequest struct {
	PropertyID      string           `json:"property_id" binding:"required,uuid"`
	RoomID          string           `json:"room_id" binding:"omitempty,uuid"`
	GuestName       string           `json:"guest_name" binding:"required,min=1,max=200"`
	GuestEmail      string           `json:"guest_email" binding:"omitempty,email,max=200"`
	GuestPhone      string           `json:"guest_phone" binding:"omitempty,phone"`
	Adults          int              `json:"adults" binding:"required,min=1,max=50"`
	Children        int              `json:"children" binding:"omitempty,min=0,max=50"`
	CheckIn         string           `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut        string           `json:"check_out" binding:"required,datetime=2006-01-02"`
	Source          string           `json:"source" binding:"omitempty,oneof=direct website phone walk_in ota whatsapp"`
	SpecialRequests string           `json:"special_requests" binding:"omitempty,max=2000"`
	TotalAmount     *decimal.Decimal `json:"total_amount"`
	Currency        string           `json:"currency" binding:"omitempty,len=3"`
}

func (r CreateBookingRequest) toInput(tenantID, actorID uuid.UUID) (booking.CreateBookingInput, error) {
	propertyID, err := parseUUID("property_id", r.PropertyID)
	if err != nil {
		return booking.CreateBookingInput{}, err
	}
	roomID, err := parseOptionalUUID("room_id", r.RoomID)
	if err != nil {
		return booking.CreateBookingInput{}, err
	}
	checkIn, err := parseDate("check_in", r.CheckIn)
	if err != nil {
		return booking.CreateBookingInput{}, err
	}
	checkOut, err := parseDate("check_out", r.CheckOut)
	if err != nil {
		return booking.CreateBookingInput{}, err
	}
	return booking.CreateBookingInput{
		TenantID:        tenantID,
		CreatedBy:       actorID,
		PropertyID:      propertyID,
		RoomID:          roomID,
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		GuestPhone:      r.GuestPhone,
		Adults:          r.Adults,
		Children:        r.Children,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Source:          r.Source,
		SpecialRequests: r.SpecialRequests,
		TotalAmount:     r.TotalAmount,
		Currency:        r.Currency,
	}, nil
}

// UpdateBookingRequest changes guest details, dates or room of an open booking
type UpdateBookingRequest struct {
	GuestName       *string `json:"guest_name" binding:"omitempty,min=1,max=200"`
	GuestEmail      *string `json:"guest_email" binding:"omitempty,email,max=200"`
	GuestPhone      *string `json:"guest_phone" binding:"omitempty,phone"`
	SpecialRequests *string `json:"special_requests" binding:"omitempty,max=2000"`
	Adults          *int    `json:"adults" binding:"omitempty,min=1,max=50"`
	Children        *int    `json:"children" binding:"omitempty,min=0,max=50"`
	CheckIn         *string `json:"check_in" binding:"omitempty,datetime=2006-01-02"`
	CheckOut        *string `json:"check_out" binding:"omitempty,datetime=2006-01-02"`
	RoomID          *string `json:"room_id" binding:"omitempty,uuid"`
}

func (r UpdateBookingRequest) toInput() (booking.UpdateBookingInput, error) {
	in := booking.UpdateBookingInput{
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		GuestPhone:      r.GuestPhone,
		SpecialRequests: r.SpecialRequests,
		Adults:          r.Adults,
		Children:        r.Children,
	}
	var err error
	if in.CheckIn, err = parseDatePtr("check_in", r.CheckIn); err != nil {
		return in, err
	}
	if in.CheckOut, err = parseDatePtr("check_out", r.CheckOut); err != nil {
		return in, err
	}
	if r.RoomID != nil {
		if in.RoomID, err = parseOptionalUUID("room_id", *r.RoomID); err != nil {
			return in, err
		}
	}
	return in, nil
}

// CancelBookingRequest carries an optional cancellation reason
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// BookingListQuery represents query parameters for listing bookings
type BookingListQuery struct {
	Keyword    string `form:"keyword" binding:"omitempty,max=100"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed checked_in checked_out cancelled no_show"`
	Source     string `form:"source" binding:"omitempty,oneof=direct website phone walk_in ota whatsapp"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	RoomID     string `form:"room_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=reference check_in check_out status total_amount created_at"`
	SortDir    string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

func (q BookingListQuery) toFilter() (booking.BookingListFilter, error) {
	f := booking.BookingListFilter{
		Search:   q.Keyword,
		Status:   q.Status,
		Source:   q.Source,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.SortBy,
		OrderDir: q.SortDir,
	}
	var err error
	if f.PropertyID, err = parseOptionalUUID("property_id", q.PropertyID); err != nil {
		return f, err
	}
	if f.RoomID, err = parseOptionalUUID("room_id", q.RoomID); err != nil {
		return f, err
	}
	if f.From, err = parseOptionalDate("from", q.From); err != nil {
		return f, err
	}
	if f.To, err = parseOptionalDate("to", q.To); err != nil {
		return f, err
	}
	return f, nil
}

// AvailabilityQuery selects a stay to check
type AvailabilityQuery struct {
	CheckIn  string `form:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut string `form:"check_out" binding:"required,datetime=2006-01-02"`
	Guests   int    `form:"guests" binding:"omitempty,min=1,max=50"`
}
