package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// BookingService manages reservations and room availability
type BookingService struct {
	bookings   booking.BookingRepository
	properties property.PropertyRepository
	rooms      property.RoomRepository
	events     shared.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings booking.BookingRepository,
	properties property.PropertyRepository,
	rooms property.RoomRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		rooms:      rooms,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// Create makes a pending reservation, holding the room when one is given
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (_ *BookingDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "create",
		telemetry.String(telemetry.AttrTenantID, input.TenantID.String()),
		telemetry.String(telemetry.AttrPropertyID, input.PropertyID.String()))
	defer func() { telemetry.End(span, err) }()

	p, err := s.properties.FindByIDForTenant(ctx, input.TenantID, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if !p.IsBookable() {
		return nil, shared.NewInvalidStateError("Property is not accepting bookings")
	}

	b, err := booking.NewBooking(input.TenantID, input.PropertyID,
		booking.Guest{Name: input.GuestName, Email: input.GuestEmail, Phone: input.GuestPhone},
		booking.Stay{CheckIn: input.CheckIn, CheckOut: input.CheckOut, Adults: input.Adults, Children: input.Children},
		booking.BookingSource(input.Source))
	if err != nil {
		return nil, err
	}

	if input.RoomID != nil {
		room, err := s.reserveRoom(ctx, b, *input.RoomID, nil)
		if err != nil {
			return nil, err
		}
		if err := b.AssignRoom(room.ID, room.BaseRate, room.Currency); err != nil {
			return nil, err
		}
	}
	if input.TotalAmount != nil {
		if err := b.SetTotal(*input.TotalAmount, input.Currency); err != nil {
			return nil, err
		}
	}
	if input.SpecialRequests != "" {
		if err := b.UpdateGuest(booking.Guest{Name: b.GuestName, Email: b.GuestEmail, Phone: b.GuestPhone}, input.SpecialRequests); err != nil {
			return nil, err
		}
	}
	if input.CreatedBy != uuid.Nil {
		b.SetCreatedBy(input.CreatedBy)
	}

	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, b)

	s.logger.Info("Booking created",
		zap.String("tenant_id", b.TenantID.String()),
		zap.String("booking_id", b.ID.String()),
		zap.String("reference", b.Reference),
		zap.Int("nights", b.Nights()))

	dto := ToBookingDTO(b)
	return &dto, nil
}

// reserveRoom loads a room of the booking's property and checks that it can host the stay
func (s *BookingService) reserveRoom(ctx context.Context, b *booking.Booking, roomID uuid.UUID, excludeID *uuid.UUID) (*property.Room, error) {
	room, err := s.rooms.FindByIDForTenant(ctx, b.TenantID, roomID)
	if err != nil {
		return nil, err
	}
	if room.PropertyID != b.PropertyID {
		return nil, shared.NewDomainError("INVALID_ROOM", "Room does not belong to this property")
	}
	if !room.IsSellable() {
		return nil, shared.NewInvalidStateError("Room is not available for sale")
	}
	if !room.Fits(b.Stay().Guests()) {
		return nil, shared.NewDomainError("INVALID_GUESTS", "Party size exceeds room capacity")
	}
	overlap, err := s.bookings.HasOverlap(ctx, b.TenantID, roomID, b.CheckIn, b.CheckOut, excludeID)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, booking.ErrRoomUnavailable
	}
	return room, nil
}

// GetByID returns a booking of the tenant
func (s *BookingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToBookingDTO(b)
	return &dto, nil
}

// GetByReference looks a booking up by its guest-facing reference
func (s *BookingService) GetByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*BookingDTO, error) {
	b, err := s.bookings.FindByReference(ctx, tenantID, reference)
	if err != nil {
		return nil, err
	}
	dto := ToBookingDTO(b)
	return &dto, nil
}

// List returns bookings matching the filter
func (s *BookingService) List(ctx context.Context, tenantID uuid.UUID, f BookingListFilter) (shared.Paginated[BookingDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters: map[string]any{
			"status": f.Status,
			"source": f.Source,
		},
	}.Normalize()
	if f.OrderBy == "" {
		filter.OrderBy = "check_in"
	}
	if f.PropertyID != nil {
		filter.Filters["property_id"] = *f.PropertyID
	}
	if f.RoomID != nil {
		filter.Filters["room_id"] = *f.RoomID
	}
	if f.From != nil {
		filter.Filters["from"] = *f.From
	}
	if f.To != nil {
		filter.Filters["to"] = *f.To
	}

	items, err := s.bookings.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[BookingDTO]{}, err
	}
	total, err := s.bookings.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[BookingDTO]{}, err
	}

	out := make([]BookingDTO, len(items))
	for i := range items {
		out[i] = ToBookingDTO(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update changes guest details, dates or room. Date and room changes re-check availability.
func (s *BookingService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateBookingInput) (_ *BookingDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "update",
		telemetry.String(telemetry.AttrTenantID, tenantID.String()),
		telemetry.String(telemetry.AttrBookingID, id.String()))
	defer func() { telemetry.End(span, err) }()

	b, err := s.bookings.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.GuestName != nil || input.GuestEmail != nil || input.GuestPhone != nil || input.SpecialRequests != nil {
		guest := booking.Guest{
			Name:  pick(input.GuestName, b.GuestName),
			Email: pick(input.GuestEmail, b.GuestEmail),
			Phone: pick(input.GuestPhone, b.GuestPhone),
		}
		if err := b.UpdateGuest(guest, pick(input.SpecialRequests, b.SpecialRequests)); err != nil {
			return nil, err
		}
	}

	stayChanged := input.CheckIn != nil || input.CheckOut != nil || input.Adults != nil || input.Children != nil
	if stayChanged {
		stay := b.Stay()
		if input.CheckIn != nil {
			stay.CheckIn = *input.CheckIn
		}
		if input.CheckOut != nil {
			stay.CheckOut = *input.CheckOut
		}
		if input.Adults != nil {
			stay.Adults = *input.Adults
		}
		if input.Children != nil {
			stay.Children = *input.Children
		}
		if err := b.Reschedule(stay); err != nil {
			return nil, err
		}
	}

	roomChanged := input.RoomID != nil && (b.RoomID == nil || *b.RoomID != *input.RoomID)
	if roomChanged {
		room, err := s.reserveRoom(ctx, b, *input.RoomID, &b.ID)
		if err != nil {
			return nil, err
		}
		if err := b.AssignRoom(room.ID, room.BaseRate, room.Currency); err != nil {
			return nil, err
		}
	} else if stayChanged && b.RoomID != nil {
		if _, err := s.reserveRoom(ctx, b, *b.RoomID, &b.ID); err != nil {
			return nil, err
		}
	}

	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	dto := ToBookingDTO(b)
	return &dto, nil
}

// Confirm confirms a pending booking
func (s *BookingService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, tenantID, id, "confirm", (*booking.Booking).Confirm)
}

// CheckIn records the guest's arrival
func (s *BookingService) CheckIn(ctx context.Context, tenantID, id uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, tenantID, id, "check_in", func(b *booking.Booking) error {
		return b.CheckInGuest(s.now())
	})
}

// CheckOut closes the guest's stay
func (s *BookingService) CheckOut(ctx context.Context, tenantID, id uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, tenantID, id, "check_out", func(b *booking.Booking) error {
		return b.CheckOutGuest(s.now())
	})
}

// Cancel cancels a booking and releases its room
func (s *BookingService) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*BookingDTO, error) {
	return s.transition(ctx, tenantID, id, "cancel", func(b *booking.Booking) error {
		return b.Cancel(reason)
	})
}

// MarkNoShow records that a confirmed guest never arrived
func (s *BookingService) MarkNoShow(ctx context.Context, tenantID, id uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, tenantID, id, "no_show", func(b *booking.Booking) error {
		return b.MarkNoShow(s.now())
	})
}

func (s *BookingService) transition(ctx context.Context, tenantID, id uuid.UUID, op string, apply func(*booking.Booking) error) (_ *BookingDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", op,
		telemetry.String(telemetry.AttrTenantID, tenantID.String()),
		telemetry.String(telemetry.AttrBookingID, id.String()))
	defer func() { telemetry.End(span, err) }()

	b, err := s.bookings.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(b); err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, b)

	s.logger.Info("Booking status changed",
		zap.String("booking_id", b.ID.String()),
		zap.String("reference", b.Reference),
		zap.String("status", string(b.Status)))

	dto := ToBookingDTO(b)
	return &dto, nil
}

// Delete removes a pending or cancelled booking
func (s *BookingService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	b, err := s.bookings.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !b.CanDelete() {
		return shared.NewInvalidStateError("Only pending or cancelled bookings can be deleted")
	}
	return s.bookings.DeleteForTenant(ctx, tenantID, id)
}

// Availability lists the rooms of a property that are free for the whole stay
func (s *BookingService) Availability(ctx context.Context, tenantID, propertyID uuid.UUID, checkIn, checkOut time.Time, guests int) (*AvailabilityDTO, error) {
	if guests < 1 {
		guests = 1
	}
	stay := booking.Stay{CheckIn: checkIn, CheckOut: checkOut, Adults: guests}
	if err := stay.Validate(); err != nil {
		return nil, err
	}

	p, err := s.properties.FindByIDForTenant(ctx, tenantID, propertyID)
	if err != nil {
		return nil, err
	}
	if !p.Type.HasRooms() {
		return nil, shared.NewValidationError("Availability applies to properties with rooms")
	}

	rooms, err := s.rooms.FindAvailable(ctx, tenantID, propertyID, checkIn, checkOut, guests)
	if err != nil {
		return nil, err
	}

	nights := stay.Nights()
	out := &AvailabilityDTO{
		PropertyID: propertyID,
		CheckIn:    checkIn.Format(time.DateOnly),
		CheckOut:   checkOut.Format(time.DateOnly),
		Nights:     nights,
		Guests:     guests,
		Rooms:      make([]AvailableRoomDTO, 0, len(rooms)),
	}
	for i := range rooms {
		out.Rooms = append(out.Rooms, toAvailableRoom(&rooms[i], nights))
	}
	return out, nil
}

func (s *BookingService) publish(ctx context.Context, b *booking.Booking) {
	if err := shared.PublishPending(ctx, s.events, b); err != nil {
		s.logger.Warn("Failed to publish booking events", zap.String("booking_id", b.ID.String()), zap.Error(err))
	}
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
