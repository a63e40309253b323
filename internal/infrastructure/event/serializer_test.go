package event

import (
	"encoding/json"
	"testing"

	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	original := confirmedEvent().(*booking.BookingConfirmedEvent)
	data, err := s.Marshal(original)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, booking.EventTypeBookingConfirmed, env.Type)
	assert.Equal(t, booking.AggregateTypeBooking, env.AggregateType)
	assert.Equal(t, original.AggregateID(), env.AggregateID)
	assert.Equal(t, original.TenantID(), env.TenantID)

	decoded, err := s.Unmarshal(data)
	require.NoError(t, err)
	got, ok := decoded.(*booking.BookingConfirmedEvent)
	require.True(t, ok)
	assert.Equal(t, original.Reference, got.Reference)
	assert.Equal(t, original.GuestEmail, got.GuestEmail)
	assert.True(t, original.CheckIn.Equal(got.CheckIn))
	assert.Equal(t, original.EventID(), got.EventID())
}

func TestEventSerializer_UnknownType(t *testing.T) {
	s := NewEventSerializer()
	data, err := s.Marshal(confirmedEvent())
	require.NoError(t, err)

	_, err = s.Unmarshal(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEventSerializer_InvalidJSON(t *testing.T) {
	s := NewEventSerializer()
	_, err := s.Unmarshal([]byte("{not json"))
	assert.Error(t, err)
}

func TestRegisterAllEvents(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	types := s.RegisteredTypes()
	assert.Len(t, types, 23)
	assert.True(t, s.IsRegistered("LeadCreated"))
	assert.True(t, s.IsRegistered("InvoicePaid"))
	assert.False(t, s.IsRegistered("StockIncreased"))
	assert.IsNonDecreasing(t, types)
}
