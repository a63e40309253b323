package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := NewBooking(uuid.New(), uuid.New(),
		Guest{Name: "Maria Lopez", Email: "Maria@Example.com"},
		Stay{CheckIn: day("2026-03-10"), CheckOut: day("2026-03-13"), Adults: 2},
		BookingSourceWebsite)
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	b := newTestBooking(t)
	assert.Equal(t, BookingStatusPending, b.Status)
	assert.Equal(t, "maria@example.com", b.GuestEmail)
	assert.Equal(t, 3, b.Nights())
	assert.True(t, shared.IsValidBookingReference(b.Reference), b.Reference)
	require.Len(t, b.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeBookingCreated, b.GetDomainEvents()[0].EventType())
}

func TestNewBooking_Validation(t *testing.T) {
	tenantID, propertyID := uuid.New(), uuid.New()
	guest := Guest{Name: "Guest", Phone: "+44 20 7946 0958"}
	stay := Stay{CheckIn: day("2026-03-10"), CheckOut: day("2026-03-11"), Adults: 1}

	tests := []struct {
		name       string
		propertyID uuid.UUID
		guest      Guest
		stay       Stay
		source     BookingSource
	}{
		{"missing property", uuid.Nil, guest, stay, ""},
		{"missing guest name", propertyID, Guest{Email: "a@b.co"}, stay, ""},
		{"no contact", propertyID, Guest{Name: "x"}, stay, ""},
		{"bad email", propertyID, Guest{Name: "x", Email: "x@"}, stay, ""},
		{"bad phone", propertyID, Guest{Name: "x", Phone: "12ab"}, stay, ""},
		{"same-day stay", propertyID, guest, Stay{CheckIn: day("2026-03-10"), CheckOut: day("2026-03-10"), Adults: 1}, ""},
		{"reversed dates", propertyID, guest, Stay{CheckIn: day("2026-03-12"), CheckOut: day("2026-03-10"), Adults: 1}, ""},
		{"no adults", propertyID, guest, Stay{CheckIn: day("2026-03-10"), CheckOut: day("2026-03-11")}, ""},
		{"unknown source", propertyID, guest, stay, "carrier-pigeon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBooking(tenantID, tt.propertyID, tt.guest, tt.stay, tt.source)
			require.Error(t, err)
		})
	}
}

func TestBooking_AssignRoomPricesStay(t *testing.T) {
	b := newTestBooking(t)
	roomID := uuid.New()

	require.NoError(t, b.AssignRoom(roomID, decimal.RequireFromString("99.90"), "eur"))
	assert.Equal(t, roomID, *b.RoomID)
	assert.Equal(t, "299.70", b.TotalAmount.StringFixed(2))
	assert.Equal(t, "EUR", b.Currency)

	require.NoError(t, b.Reschedule(Stay{CheckIn: day("2026-03-10"), CheckOut: day("2026-03-15"), Adults: 2}))
	assert.Equal(t, "499.50", b.TotalAmount.StringFixed(2))
}

func TestBooking_Lifecycle(t *testing.T) {
	b := newTestBooking(t)
	b.ClearDomainEvents()

	require.Error(t, b.CheckInGuest(day("2026-03-10")))
	require.NoError(t, b.Confirm())
	require.Error(t, b.Confirm())
	require.NotNil(t, b.ConfirmedAt)

	require.Error(t, b.CheckInGuest(day("2026-03-09")), "early arrival")
	require.NoError(t, b.CheckInGuest(day("2026-03-10").Add(15*time.Hour)))
	require.Error(t, b.Cancel("changed plans"))
	require.Error(t, b.UpdateGuest(Guest{Name: "x", Email: "x@y.com"}, ""))

	require.NoError(t, b.CheckOutGuest(day("2026-03-13")))
	assert.Equal(t, BookingStatusCheckedOut, b.Status)
	assert.False(t, b.CanDelete())

	types := []string{}
	for _, e := range b.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{EventTypeBookingConfirmed, EventTypeBookingCheckedIn, EventTypeBookingCheckedOut}, types)
}

func TestBooking_Cancel(t *testing.T) {
	b := newTestBooking(t)
	require.Error(t, b.Cancel("  "))
	require.NoError(t, b.Cancel("Flight <b>cancelled</b>"))
	assert.Equal(t, BookingStatusCancelled, b.Status)
	assert.Equal(t, "Flight cancelled", b.CancellationReason)
	assert.True(t, b.CanDelete())
	assert.False(t, b.Status.IsActive())
}

func TestBooking_NoShow(t *testing.T) {
	b := newTestBooking(t)
	require.Error(t, b.MarkNoShow(day("2026-03-11")))
	require.NoError(t, b.Confirm())
	require.Error(t, b.MarkNoShow(day("2026-03-09")))
	require.NoError(t, b.MarkNoShow(day("2026-03-11")))
	assert.Equal(t, BookingStatusNoShow, b.Status)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(day("2026-03-10"), day("2026-03-13"), day("2026-03-12"), day("2026-03-14")))
	assert.True(t, Overlaps(day("2026-03-10"), day("2026-03-13"), day("2026-03-11"), day("2026-03-12")))
	assert.False(t, Overlaps(day("2026-03-10"), day("2026-03-13"), day("2026-03-13"), day("2026-03-15")), "same-day turnover")
	assert.False(t, Overlaps(day("2026-03-10"), day("2026-03-13"), day("2026-03-01"), day("2026-03-10")))
}
