package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookings struct {
	items map[uuid.UUID]*booking.Booking
	saved int
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{items: map[uuid.UUID]*booking.Booking{}}
}

func (f *fakeBookings) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*booking.Booking, error) {
	b, ok := f.items[id]
	if !ok || b.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookings) FindByReference(_ context.Context, tenantID uuid.UUID, reference string) (*booking.Booking, error) {
	for _, b := range f.items {
		if b.TenantID == tenantID && b.Reference == reference {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeBookings) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter shared.Filter) ([]booking.Booking, error) {
	var out []booking.Booking
	for _, b := range f.items {
		if b.TenantID != tenantID {
			continue
		}
		if status, _ := filter.Filters["status"].(string); status != "" && string(b.Status) != status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookings) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	items, _ := f.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(items)), nil
}

func (f *fakeBookings) HasOverlap(_ context.Context, tenantID, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	for _, b := range f.items {
		if b.TenantID != tenantID || b.RoomID == nil || *b.RoomID != roomID || !b.Status.IsActive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if booking.Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookings) CountActiveByProperty(_ context.Context, tenantID, propertyID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range f.items {
		if b.TenantID == tenantID && b.PropertyID == propertyID && b.Status.IsActive() {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookings) Save(_ context.Context, b *booking.Booking) error {
	f.items[b.ID] = b
	f.saved++
	return nil
}

func (f *fakeBookings) DeleteForTenant(_ context.Context, _, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeProperties struct {
	items map[uuid.UUID]*property.Property
}

func (f *fakeProperties) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*property.Property, error) {
	p, ok := f.items[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeProperties) FindBySlug(context.Context, uuid.UUID, string) (*property.Property, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeProperties) FindAllForTenant(context.Context, uuid.UUID, shared.Filter) ([]property.Property, error) {
	return nil, nil
}

func (f *fakeProperties) CountForTenant(context.Context, uuid.UUID, shared.Filter) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeProperties) ExistsByCode(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (f *fakeProperties) Save(_ context.Context, p *property.Property) error {
	f.items[p.ID] = p
	return nil
}

func (f *fakeProperties) DeleteForTenant(_ context.Context, _, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeRooms struct {
	items     map[uuid.UUID]*property.Room
	available []property.Room
}

func (f *fakeRooms) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*property.Room, error) {
	r, ok := f.items[id]
	if !ok || r.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (f *fakeRooms) FindByProperty(context.Context, uuid.UUID, uuid.UUID, shared.Filter) ([]property.Room, error) {
	return nil, nil
}

func (f *fakeRooms) CountByProperty(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeRooms) ExistsByNumber(context.Context, uuid.UUID, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (f *fakeRooms) FindAvailable(context.Context, uuid.UUID, uuid.UUID, time.Time, time.Time, int) ([]property.Room, error) {
	return f.available, nil
}

func (f *fakeRooms) Save(_ context.Context, r *property.Room) error {
	f.items[r.ID] = r
	return nil
}

func (f *fakeRooms) DeleteForTenant(_ context.Context, _, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}

type fixture struct {
	svc      *BookingService
	bookings *fakeBookings
	rooms    *fakeRooms
	events   *recordingPublisher
	tenantID uuid.UUID
	hotel    *property.Property
	room     *property.Room
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tenantID := uuid.New()
	hotel, err := property.NewProperty(tenantID, "HARBOUR", "Harbour View Hotel", property.PropertyTypeHotel)
	require.NoError(t, err)
	require.NoError(t, hotel.Activate())
	hotel.ClearDomainEvents()

	room, err := property.NewRoom(hotel, "101", property.RoomTypeDouble, 2, decimal.NewFromInt(120), "EUR")
	require.NoError(t, err)

	f := &fixture{
		bookings: newFakeBookings(),
		rooms:    &fakeRooms{items: map[uuid.UUID]*property.Room{room.ID: room}},
		events:   &recordingPublisher{},
		tenantID: tenantID,
		hotel:    hotel,
		room:     room,
	}
	props := &fakeProperties{items: map[uuid.UUID]*property.Property{hotel.ID: hotel}}
	f.svc = NewBookingService(f.bookings, props, f.rooms, f.events, zap.NewNop())
	f.svc.now = func() time.Time { return date(2026, 7, 1) }
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) input(checkIn, checkOut time.Time) CreateBookingInput {
	roomID := f.room.ID
	return CreateBookingInput{
		TenantID:   f.tenantID,
		PropertyID: f.hotel.ID,
		RoomID:     &roomID,
		GuestName:  "Ana Souza",
		GuestEmail: "Ana@Example.com",
		Adults:     2,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Source:     "website",
	}
}

func TestBookingService_Create(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), f.input(date(2026, 7, 10), date(2026, 7, 13)))
	require.NoError(t, err)

	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, 3, dto.Nights)
	assert.True(t, decimal.NewFromInt(360).Equal(dto.TotalAmount))
	assert.Equal(t, "EUR", dto.Currency)
	assert.Equal(t, "2026-07-10", dto.CheckIn)
	assert.Equal(t, []string{booking.EventTypeBookingCreated}, f.events.types)
}

func TestBookingService_Create_RejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input(date(2026, 7, 10), date(2026, 7, 13)))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.input(date(2026, 7, 12), date(2026, 7, 15)))
	assert.True(t, errors.Is(err, booking.ErrRoomUnavailable))
	assert.Len(t, f.bookings.items, 1)
}

func TestBookingService_Create_SameDayTurnover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input(date(2026, 7, 10), date(2026, 7, 13)))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.input(date(2026, 7, 13), date(2026, 7, 14)))
	assert.NoError(t, err)
}

func TestBookingService_Create_CancelledBookingFreesRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.input(date(2026, 7, 10), date(2026, 7, 13)))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, f.tenantID, first.ID, "Plans changed")
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.input(date(2026, 7, 10), date(2026, 7, 13)))
	assert.NoError(t, err)
}

func TestBookingService_Create_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture, in *CreateBookingInput)
		code   string
	}{
		{
			name:   "party larger than room",
			mutate: func(_ *fixture, in *CreateBookingInput) { in.Adults = 3 },
			code:   "INVALID_GUESTS",
		},
		{
			name:   "checkout before checkin",
			mutate: func(_ *fixture, in *CreateBookingInput) { in.CheckOut = in.CheckIn.AddDate(0, 0, -1) },
			code:   "INVALID_DATES",
		},
		{
			name: "room out of order",
			mutate: func(f *fixture, _ *CreateBookingInput) {
				require.NoError(t, f.room.SetStatus(property.RoomStatusOutOfService))
			},
			code: "INVALID_STATE",
		},
		{
			name: "property not bookable",
			mutate: func(f *fixture, _ *CreateBookingInput) {
				require.NoError(t, f.hotel.Deactivate())
			},
			code: "INVALID_STATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := f.input(date(2026, 7, 10), date(2026, 7, 12))
			tt.mutate(f, &in)

			_, err := f.svc.Create(context.Background(), in)
			require.Error(t, err)
			var de *shared.DomainError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestBookingService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.input(date(2026, 7, 1), date(2026, 7, 3)))
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, f.tenantID, created.ID)
	assert.Error(t, err, "pending bookings cannot check in")

	confirmed, err := f.svc.Confirm(ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	in, err := f.svc.CheckIn(ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "checked_in", in.Status)

	out, err := f.svc.CheckOut(ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "checked_out", out.Status)

	assert.Equal(t, []string{
		booking.EventTypeBookingCreated,
		booking.EventTypeBookingConfirmed,
		booking.EventTypeBookingCheckedIn,
		booking.EventTypeBookingCheckedOut,
	}, f.events.types)

	err = f.svc.Delete(ctx, f.tenantID, created.ID)
	assert.Error(t, err, "completed stays are kept")
}

func TestBookingService_CheckInBeforeArrival(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.input(date(2026, 8, 1), date(2026, 8, 3)))
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, f.tenantID, created.ID)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, f.tenantID, created.ID)
	assert.Error(t, err)
}

func TestBookingService_Update_RescheduleChecksOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, f.input(date(2026, 7, 10), date(2026, 7, 12)))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.input(date(2026, 7, 14), date(2026, 7, 16)))
	require.NoError(t, err)

	extended := date(2026, 7, 15)
	_, err = f.svc.Update(ctx, f.tenantID, a.ID, UpdateBookingInput{CheckOut: &extended})
	assert.True(t, errors.Is(err, booking.ErrRoomUnavailable))

	shortened := date(2026, 7, 11)
	dto, err := f.svc.Update(ctx, f.tenantID, a.ID, UpdateBookingInput{CheckOut: &shortened})
	require.NoError(t, err)
	assert.Equal(t, 1, dto.Nights)
	assert.True(t, decimal.NewFromInt(120).Equal(dto.TotalAmount))
}

func TestBookingService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.input(date(2026, 7, 10), date(2026, 7, 12)))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.tenantID, created.ID))
	_, err = f.svc.GetByID(ctx, f.tenantID, created.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestBookingService_GetByReference_TenantScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.input(date(2026, 7, 10), date(2026, 7, 12)))
	require.NoError(t, err)

	got, err := f.svc.GetByReference(ctx, f.tenantID, created.Reference)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.svc.GetByReference(ctx, uuid.New(), created.Reference)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestBookingService_Availability(t *testing.T) {
	f := newFixture(t)
	f.rooms.available = []property.Room{*f.room}

	avail, err := f.svc.Availability(context.Background(), f.tenantID, f.hotel.ID, date(2026, 7, 10), date(2026, 7, 14), 2)
	require.NoError(t, err)

	assert.Equal(t, 4, avail.Nights)
	require.Len(t, avail.Rooms, 1)
	assert.Equal(t, "101", avail.Rooms[0].Number)
	assert.True(t, decimal.NewFromInt(480).Equal(avail.Rooms[0].TotalPrice))

	_, err = f.svc.Availability(context.Background(), f.tenantID, f.hotel.ID, date(2026, 7, 14), date(2026, 7, 10), 2)
	assert.Error(t, err)
}
