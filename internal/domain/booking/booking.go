package booking

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrRoomUnavailable is returned when another live booking holds the room
var ErrRoomUnavailable = shared.NewDomainError("CONFLICT", "Room is already booked for these dates")

// BookingStatus is the reservation lifecycle status
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusNoShow     BookingStatus = "no_show"
)

// ActiveStatuses are the statuses that hold a room
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn}

// IsActive reports whether a booking in this status occupies its room
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed || s == BookingStatusCheckedIn
}

// BookingSource is the channel the reservation came from
type BookingSource string

const (
	BookingSourceDirect   BookingSource = "direct"
	BookingSourceWebsite  BookingSource = "website"
	BookingSourcePhone    BookingSource = "phone"
	BookingSourceWalkIn   BookingSource = "walk_in"
	BookingSourceOTA      BookingSource = "ota"
	BookingSourceWhatsApp BookingSource = "whatsapp"
)

// IsValid reports whether the source is known
func (s BookingSource) IsValid() bool {
	switch s {
	case BookingSourceDirect, BookingSourceWebsite, BookingSourcePhone, BookingSourceWalkIn, BookingSourceOTA, BookingSourceWhatsApp:
		return true
	}
	return false
}

// Guest holds the contact details of the booking party
type Guest struct {
	Name  string
	Email string
	Phone string
}

// Stay is the date range and party size of a booking
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Adults   int
	Children int
}

// Nights returns the number of nights in the stay
func (s Stay) Nights() int {
	return int(dateOnly(s.CheckOut).Sub(dateOnly(s.CheckIn)).Hours() / 24)
}

// Guests returns the party size
func (s Stay) Guests() int {
	return s.Adults + s.Children
}

// Validate checks the stay dates and party size
func (s Stay) Validate() error {
	if s.CheckIn.IsZero() || s.CheckOut.IsZero() {
		return shared.NewDomainError("INVALID_DATES", "Check-in and check-out dates are required")
	}
	if !dateOnly(s.CheckOut).After(dateOnly(s.CheckIn)) {
		return shared.NewDomainError("INVALID_DATES", "Check-out must be after check-in")
	}
	if s.Nights() > 365 {
		return shared.NewDomainError("INVALID_DATES", "A stay cannot exceed 365 nights")
	}
	if s.Adults < 1 {
		return shared.NewDomainError("INVALID_GUESTS", "At least one adult is required")
	}
	if s.Children < 0 {
		return shared.NewDomainError("INVALID_GUESTS", "Children cannot be negative")
	}
	return nil
}

// Booking is a guest reservation at a property
type Booking struct {
	shared.TenantAggregateRoot
	Reference          string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	PropertyID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	RoomID             *uuid.UUID      `gorm:"type:uuid;index"`
	GuestName          string          `gorm:"type:varchar(200);not null"`
	GuestEmail         string          `gorm:"type:varchar(200)"`
	GuestPhone         string          `gorm:"type:varchar(50)"`
	Adults             int             `gorm:"not null;default:1"`
	Children           int             `gorm:"not null;default:0"`
	CheckIn            time.Time       `gorm:"type:date;not null;index"`
	CheckOut           time.Time       `gorm:"type:date;not null"`
	Status             BookingStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	Source             BookingSource   `gorm:"type:varchar(20);not null;default:'direct'"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency           string          `gorm:"type:varchar(3);not null;default:'USD'"`
	SpecialRequests    string          `gorm:"type:text"`
	CancellationReason string          `gorm:"type:varchar(500)"`
	ConfirmedAt        *time.Time
	CheckedInAt        *time.Time
	CheckedOutAt       *time.Time
	CancelledAt        *time.Time
}

// TableName returns the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// NewBooking creates a pending booking
func NewBooking(tenantID, propertyID uuid.UUID, guest Guest, stay Stay, source BookingSource) (*Booking, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property is required")
	}
	guest, err := normalizeGuest(guest)
	if err != nil {
		return nil, err
	}
	stay.CheckIn = dateOnly(stay.CheckIn)
	stay.CheckOut = dateOnly(stay.CheckOut)
	if err := stay.Validate(); err != nil {
		return nil, err
	}
	if source == "" {
		source = BookingSourceDirect
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Unknown booking source")
	}

	b := &Booking{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Reference:           NewReference(time.Now()),
		PropertyID:          propertyID,
		GuestName:           guest.Name,
		GuestEmail:          guest.Email,
		GuestPhone:          guest.Phone,
		Adults:              stay.Adults,
		Children:            stay.Children,
		CheckIn:             stay.CheckIn,
		CheckOut:            stay.CheckOut,
		Status:              BookingStatusPending,
		Source:              source,
		TotalAmount:         decimal.Zero,
		Currency:            "USD",
	}

	b.AddDomainEvent(NewBookingCreatedEvent(b))

	return b, nil
}

// Stay returns the booking's stay
func (b *Booking) Stay() Stay {
	return Stay{CheckIn: b.CheckIn, CheckOut: b.CheckOut, Adults: b.Adults, Children: b.Children}
}

// Nights returns the number of nights booked
func (b *Booking) Nights() int {
	return b.Stay().Nights()
}

// AssignRoom attaches a room and prices the stay at nightly rate
func (b *Booking) AssignRoom(roomID uuid.UUID, nightlyRate decimal.Decimal, currency string) error {
	if !b.isEditable() {
		return shared.NewInvalidStateError("Room can only be changed on pending or confirmed bookings")
	}
	if roomID == uuid.Nil {
		return shared.NewDomainError("INVALID_ROOM", "Room is required")
	}
	b.RoomID = &roomID
	b.TotalAmount = nightlyRate.Mul(decimal.NewFromInt(int64(b.Nights()))).Round(2)
	if currency != "" {
		b.Currency = strings.ToUpper(currency)
	}
	b.MarkChanged()
	return nil
}

// SetTotal overrides the price, for bookings without a room
func (b *Booking) SetTotal(amount decimal.Decimal, currency string) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	b.TotalAmount = amount.Round(2)
	if currency != "" {
		b.Currency = strings.ToUpper(currency)
	}
	b.MarkChanged()
	return nil
}

// UpdateGuest replaces the guest contact details
func (b *Booking) UpdateGuest(guest Guest, specialRequests string) error {
	if !b.isEditable() {
		return shared.NewInvalidStateError("Only pending or confirmed bookings can be edited")
	}
	guest, err := normalizeGuest(guest)
	if err != nil {
		return err
	}
	b.GuestName = guest.Name
	b.GuestEmail = guest.Email
	b.GuestPhone = guest.Phone
	b.SpecialRequests = shared.Truncate(shared.SanitizeString(specialRequests), 2000)
	b.MarkChanged()
	return nil
}

// Reschedule changes the dates and party size; the caller re-checks availability
func (b *Booking) Reschedule(stay Stay) error {
	if !b.isEditable() {
		return shared.NewInvalidStateError("Only pending or confirmed bookings can be rescheduled")
	}
	stay.CheckIn = dateOnly(stay.CheckIn)
	stay.CheckOut = dateOnly(stay.CheckOut)
	if err := stay.Validate(); err != nil {
		return err
	}
	oldNights := b.Nights()
	b.CheckIn = stay.CheckIn
	b.CheckOut = stay.CheckOut
	b.Adults = stay.Adults
	b.Children = stay.Children
	if oldNights > 0 && !b.TotalAmount.IsZero() {
		nightly := b.TotalAmount.Div(decimal.NewFromInt(int64(oldNights)))
		b.TotalAmount = nightly.Mul(decimal.NewFromInt(int64(b.Nights()))).Round(2)
	}
	b.MarkChanged()
	return nil
}

// Confirm moves a pending booking to confirmed
func (b *Booking) Confirm() error {
	if b.Status != BookingStatusPending {
		return shared.NewInvalidStateError("Only pending bookings can be confirmed")
	}
	now := time.Now()
	b.Status = BookingStatusConfirmed
	b.ConfirmedAt = &now
	b.MarkChanged()
	b.AddDomainEvent(NewBookingConfirmedEvent(b))
	return nil
}

// CheckInGuest marks the guest as arrived
func (b *Booking) CheckInGuest(now time.Time) error {
	if b.Status != BookingStatusConfirmed {
		return shared.NewInvalidStateError("Only confirmed bookings can be checked in")
	}
	if dateOnly(now).Before(b.CheckIn) {
		return shared.NewInvalidStateError("Guest cannot check in before the arrival date")
	}
	b.Status = BookingStatusCheckedIn
	b.CheckedInAt = &now
	b.MarkChanged()
	b.AddDomainEvent(NewBookingStatusEvent(EventTypeBookingCheckedIn, b))
	return nil
}

// CheckOutGuest closes the stay
func (b *Booking) CheckOutGuest(now time.Time) error {
	if b.Status != BookingStatusCheckedIn {
		return shared.NewInvalidStateError("Only checked-in bookings can be checked out")
	}
	b.Status = BookingStatusCheckedOut
	b.CheckedOutAt = &now
	b.MarkChanged()
	b.AddDomainEvent(NewBookingStatusEvent(EventTypeBookingCheckedOut, b))
	return nil
}

// Cancel cancels a pending or confirmed booking
func (b *Booking) Cancel(reason string) error {
	if !b.isEditable() {
		return shared.NewInvalidStateError("Only pending or confirmed bookings can be cancelled")
	}
	reason = shared.SanitizeString(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}
	now := time.Now()
	b.Status = BookingStatusCancelled
	b.CancellationReason = shared.Truncate(reason, 500)
	b.CancelledAt = &now
	b.MarkChanged()
	b.AddDomainEvent(NewBookingCancelledEvent(b))
	return nil
}

// MarkNoShow records that a confirmed guest never arrived
func (b *Booking) MarkNoShow(now time.Time) error {
	if b.Status != BookingStatusConfirmed {
		return shared.NewInvalidStateError("Only confirmed bookings can be marked as no-show")
	}
	if dateOnly(now).Before(b.CheckIn) {
		return shared.NewInvalidStateError("Cannot mark no-show before the arrival date")
	}
	b.Status = BookingStatusNoShow
	b.MarkChanged()
	return nil
}

// CanDelete reports whether the booking can be removed outright
func (b *Booking) CanDelete() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusCancelled
}

// Overlaps reports whether two half-open date ranges intersect.
// A check-out on the same day as another check-in does not overlap.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return dateOnly(aIn).Before(dateOnly(bOut)) && dateOnly(bIn).Before(dateOnly(aOut))
}

func (b *Booking) isEditable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewReference generates a booking reference like BK-20260314-7KQ2ZP
func NewReference(now time.Time) string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = referenceAlphabet[int(buf[i])%len(referenceAlphabet)]
	}
	return "BK-" + now.Format("20060102") + "-" + string(buf)
}

func normalizeGuest(g Guest) (Guest, error) {
	g.Name = shared.SanitizeString(g.Name)
	if g.Name == "" {
		return g, shared.NewDomainError("INVALID_GUEST", "Guest name is required")
	}
	if len(g.Name) > 200 {
		return g, shared.NewDomainError("INVALID_GUEST", "Guest name cannot exceed 200 characters")
	}
	if g.Email != "" && !shared.IsValidEmail(strings.TrimSpace(g.Email)) {
		return g, shared.NewDomainError("INVALID_EMAIL", "Invalid guest email")
	}
	if g.Phone != "" && !shared.IsValidPhone(g.Phone) {
		return g, shared.NewDomainError("INVALID_PHONE", "Invalid guest phone")
	}
	if g.Email == "" && g.Phone == "" {
		return g, shared.NewDomainError("INVALID_GUEST", "Guest email or phone is required")
	}
	g.Email = shared.NormalizeEmail(g.Email)
	g.Phone = shared.NormalizePhone(g.Phone)
	return g, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
