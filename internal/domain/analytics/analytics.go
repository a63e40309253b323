package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusCount is a count of rows sharing a status
// This is a CQRS read model optimized for querying
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Stay is the date range a room is held for
type Stay struct {
	RoomID   uuid.UUID
	CheckIn  time.Time
	CheckOut time.Time
}

// UpcomingArrival is a booking due to check in soon
type UpcomingArrival struct {
	BookingID  uuid.UUID       `json:"booking_id"`
	Reference  string          `json:"reference"`
	GuestName  string          `json:"guest_name"`
	PropertyID uuid.UUID       `json:"property_id"`
	CheckIn    time.Time       `json:"check_in"`
	Nights     int             `json:"nights"`
	Total      decimal.Decimal `json:"total"`
}

// Period is a half-open [From, To) range of days
type Period struct {
	From time.Time
	To   time.Time
}

// Days returns the number of whole days in the period
func (p Period) Days() int {
	if !p.To.After(p.From) {
		return 0
	}
	return int(p.To.Sub(p.From).Hours() / 24)
}

// NightsWithin returns how many nights of the stay fall within the period
func (s Stay) NightsWithin(p Period) int {
	start := s.CheckIn
	if p.From.After(start) {
		start = p.From
	}
	end := s.CheckOut
	if p.To.Before(end) {
		end = p.To
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// OccupancyRate returns booked over available room-nights as a percentage with 2 decimals
func OccupancyRate(bookedNights int64, rooms int64, p Period) decimal.Decimal {
	available := rooms * int64(p.Days())
	if available == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(bookedNights).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(available)).
		Round(2)
}

// Reader is the read side used by the dashboard
type Reader interface {
	CountProperties(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountRooms(ctx context.Context, tenantID uuid.UUID) (int64, error)
	BookingsByStatus(ctx context.Context, tenantID uuid.UUID, p Period) ([]StatusCount, error)
	// Stays returns room-holding bookings overlapping the period
	Stays(ctx context.Context, tenantID uuid.UUID, p Period) ([]Stay, error)
	UpcomingArrivals(ctx context.Context, tenantID uuid.UUID, from time.Time, limit int) ([]UpcomingArrival, error)
}
