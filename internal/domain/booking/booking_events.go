package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeBookingCreated    = "BookingCreated"
	EventTypeBookingConfirmed  = "BookingConfirmed"
	EventTypeBookingCancelled  = "BookingCancelled"
	EventTypeBookingCheckedIn  = "BookingCheckedIn"
	EventTypeBookingCheckedOut = "BookingCheckedOut"
)

const AggregateTypeBooking = "Booking"

// BookingCreatedEvent is raised when a reservation is made
type BookingCreatedEvent struct {
	shared.BaseDomainEvent
	Reference  string    `json:"reference"`
	PropertyID uuid.UUID `json:"property_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
}

// NewBookingCreatedEvent creates a BookingCreatedEvent
func NewBookingCreatedEvent(b *Booking) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCreated, AggregateTypeBooking, b.ID, b.TenantID),
		Reference:       b.Reference,
		PropertyID:      b.PropertyID,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
	}
}

// BookingConfirmedEvent carries what downstream notifications need
type BookingConfirmedEvent struct {
	shared.BaseDomainEvent
	Reference   string          `json:"reference"`
	PropertyID  uuid.UUID       `json:"property_id"`
	RoomID      *uuid.UUID      `json:"room_id,omitempty"`
	GuestName   string          `json:"guest_name"`
	GuestEmail  string          `json:"guest_email"`
	GuestPhone  string          `json:"guest_phone"`
	CheckIn     time.Time       `json:"check_in"`
	CheckOut    time.Time       `json:"check_out"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

// NewBookingConfirmedEvent creates a BookingConfirmedEvent
func NewBookingConfirmedEvent(b *Booking) *BookingConfirmedEvent {
	return &BookingConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingConfirmed, AggregateTypeBooking, b.ID, b.TenantID),
		Reference:       b.Reference,
		PropertyID:      b.PropertyID,
		RoomID:          b.RoomID,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		TotalAmount:     b.TotalAmount,
		Currency:        b.Currency,
	}
}

// BookingCancelledEvent is raised when a reservation is cancelled
type BookingCancelledEvent struct {
	shared.BaseDomainEvent
	Reference  string    `json:"reference"`
	PropertyID uuid.UUID `json:"property_id"`
	GuestEmail string    `json:"guest_email"`
	Reason     string    `json:"reason"`
}

// NewBookingCancelledEvent creates a BookingCancelledEvent
func NewBookingCancelledEvent(b *Booking) *BookingCancelledEvent {
	return &BookingCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCancelled, AggregateTypeBooking, b.ID, b.TenantID),
		Reference:       b.Reference,
		PropertyID:      b.PropertyID,
		GuestEmail:      b.GuestEmail,
		Reason:          b.CancellationReason,
	}
}

// BookingStatusEvent covers check-in and check-out
type BookingStatusEvent struct {
	shared.BaseDomainEvent
	Reference string        `json:"reference"`
	Status    BookingStatus `json:"status"`
}

// NewBookingStatusEvent creates a BookingStatusEvent of the given type
func NewBookingStatusEvent(eventType string, b *Booking) *BookingStatusEvent {
	return &BookingStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeBooking, b.ID, b.TenantID),
		Reference:       b.Reference,
		Status:          b.Status,
	}
}
