package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/shopspring/decimal"
)

// CreateBookingInput contains input for making a reservation
type CreateBookingInput struct {
	TenantID        uuid.UUID
	CreatedBy       uuid.UUID
	PropertyID      uuid.UUID
	RoomID          *uuid.UUID
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Adults          int
	Children        int
	CheckIn         time.Time
	CheckOut        time.Time
	Source          string
	SpecialRequests string
	// TotalAmount prices bookings without a room, such as restaurant tables
	TotalAmount *decimal.Decimal
	Currency    string
}

// UpdateBookingInput changes guest details, dates or room; nil fields are unchanged
type UpdateBookingInput struct {
	GuestName       *string
	GuestEmail      *string
	GuestPhone      *string
	SpecialRequests *string
	Adults          *int
	Children        *int
	CheckIn         *time.Time
	CheckOut        *time.Time
	RoomID          *uuid.UUID
}

// BookingListFilter narrows booking listings
type BookingListFilter struct {
	Search     string
	Status     string
	Source     string
	PropertyID *uuid.UUID
	RoomID     *uuid.UUID
	// From and To select bookings whose stay intersects [From, To)
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// BookingDTO represents a reservation
type BookingDTO struct {
	ID                 uuid.UUID       `json:"id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	Reference          string          `json:"reference"`
	PropertyID         uuid.UUID       `json:"property_id"`
	RoomID             *uuid.UUID      `json:"room_id,omitempty"`
	GuestName          string          `json:"guest_name"`
	GuestEmail         string          `json:"guest_email,omitempty"`
	GuestPhone         string          `json:"guest_phone,omitempty"`
	Adults             int             `json:"adults"`
	Children           int             `json:"children"`
	CheckIn            string          `json:"check_in"`
	CheckOut           string          `json:"check_out"`
	Nights             int             `json:"nights"`
	Status             string          `json:"status"`
	Source             string          `json:"source"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Currency           string          `json:"currency"`
	SpecialRequests    string          `json:"special_requests,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	ConfirmedAt        *time.Time      `json:"confirmed_at,omitempty"`
	CheckedInAt        *time.Time      `json:"checked_in_at,omitempty"`
	CheckedOutAt       *time.Time      `json:"checked_out_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToBookingDTO converts a domain booking into its DTO
func ToBookingDTO(b *booking.Booking) BookingDTO {
	return BookingDTO{
		ID:                 b.ID,
		TenantID:           b.TenantID,
		Reference:          b.Reference,
		PropertyID:         b.PropertyID,
		RoomID:             b.RoomID,
		GuestName:          b.GuestName,
		GuestEmail:         b.GuestEmail,
		GuestPhone:         b.GuestPhone,
		Adults:             b.Adults,
		Children:           b.Children,
		CheckIn:            b.CheckIn.Format(time.DateOnly),
		CheckOut:           b.CheckOut.Format(time.DateOnly),
		Nights:             b.Nights(),
		Status:             string(b.Status),
		Source:             string(b.Source),
		TotalAmount:        b.TotalAmount,
		Currency:           b.Currency,
		SpecialRequests:    b.SpecialRequests,
		CancellationReason: b.CancellationReason,
		ConfirmedAt:        b.ConfirmedAt,
		CheckedInAt:        b.CheckedInAt,
		CheckedOutAt:       b.CheckedOutAt,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		Version:            b.Version,
	}
}

// AvailabilityDTO lists rooms that can be booked for a stay
type AvailabilityDTO struct {
	PropertyID uuid.UUID          `json:"property_id"`
	CheckIn    string             `json:"check_in"`
	CheckOut   string             `json:"check_out"`
	Nights     int                `json:"nights"`
	Guests     int                `json:"guests"`
	Rooms      []AvailableRoomDTO `json:"rooms"`
}

// AvailableRoomDTO is a free room with the price of the requested stay
type AvailableRoomDTO struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	Name       string          `json:"name,omitempty"`
	Type       string          `json:"type"`
	Capacity   int             `json:"capacity"`
	BaseRate   decimal.Decimal `json:"base_rate"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Currency   string          `json:"currency"`
}

func toAvailableRoom(r *property.Room, nights int) AvailableRoomDTO {
	return AvailableRoomDTO{
		ID:         r.ID,
		Number:     r.Number,
		Name:       r.Name,
		Type:       string(r.Type),
		Capacity:   r.Capacity,
		BaseRate:   r.BaseRate,
		TotalPrice: r.BaseRate.Mul(decimal.NewFromInt(int64(nights))).Round(2),
		Currency:   r.Currency,
	}
}
