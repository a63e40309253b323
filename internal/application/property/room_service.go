package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoomService manages the rooms of lodging properties
type RoomService struct {
	rooms      property.RoomRepository
	properties property.PropertyRepository
	logger     *zap.Logger
}

// NewRoomService creates a new room service
func NewRoomService(rooms property.RoomRepository, properties property.PropertyRepository, logger *zap.Logger) *RoomService {
	return &RoomService{rooms: rooms, properties: properties, logger: logger}
}

// Create adds a room to a property and refreshes the property's room count
func (s *RoomService) Create(ctx context.Context, input CreateRoomInput) (*RoomDTO, error) {
	p, err := s.properties.FindByIDForTenant(ctx, input.TenantID, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if p.Status == property.PropertyStatusArchived {
		return nil, shared.NewInvalidStateError("Archived properties cannot get new rooms")
	}

	exists, err := s.rooms.ExistsByNumber(ctx, input.TenantID, input.PropertyID, input.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Room number already exists in this property")
	}

	room, err := property.NewRoom(p, input.Number, property.RoomType(input.Type), input.Capacity, input.BaseRate, input.Currency)
	if err != nil {
		return nil, err
	}
	if input.Name != "" || input.Floor != 0 || input.Description != "" {
		if err := room.Update(input.Name, room.Type, room.Capacity, input.Floor, room.BaseRate, input.Description); err != nil {
			return nil, err
		}
	}

	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	s.syncRoomCount(ctx, p)

	s.logger.Info("Room created",
		zap.String("property_id", p.ID.String()),
		zap.String("room_id", room.ID.String()),
		zap.String("number", room.Number))

	dto := ToRoomDTO(room)
	return &dto, nil
}

// GetByID returns a room of the tenant
func (s *RoomService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RoomDTO, error) {
	room, err := s.rooms.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToRoomDTO(room)
	return &dto, nil
}

// ListByProperty returns the rooms of a property
func (s *RoomService) ListByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, f RoomListFilter) (shared.Paginated[RoomDTO], error) {
	if _, err := s.properties.FindByIDForTenant(ctx, tenantID, propertyID); err != nil {
		return shared.Paginated[RoomDTO]{}, err
	}

	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Filters: map[string]any{
			"type":   f.Type,
			"status": f.Status,
		},
	}.Normalize()
	if f.OrderBy == "" {
		filter.OrderBy = "number"
		filter.OrderDir = "asc"
	}
	if f.MinCapacity > 0 {
		filter.Filters["min_capacity"] = f.MinCapacity
	}

	rooms, err := s.rooms.FindByProperty(ctx, tenantID, propertyID, filter)
	if err != nil {
		return shared.Paginated[RoomDTO]{}, err
	}
	total, err := s.rooms.CountByProperty(ctx, tenantID, propertyID)
	if err != nil {
		return shared.Paginated[RoomDTO]{}, err
	}

	out := make([]RoomDTO, len(rooms))
	for i := range rooms {
		out[i] = ToRoomDTO(&rooms[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update applies the non-nil fields of input
func (s *RoomService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateRoomInput) (*RoomDTO, error) {
	room, err := s.rooms.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	roomType := room.Type
	if input.Type != nil {
		roomType = property.RoomType(*input.Type)
	}
	capacity := room.Capacity
	if input.Capacity != nil {
		capacity = *input.Capacity
	}
	floor := room.Floor
	if input.Floor != nil {
		floor = *input.Floor
	}
	rate := room.BaseRate
	if input.BaseRate != nil {
		rate = *input.BaseRate
	}
	if err := room.Update(pick(input.Name, room.Name), roomType, capacity, floor, rate, pick(input.Description, room.Description)); err != nil {
		return nil, err
	}

	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	dto := ToRoomDTO(room)
	return &dto, nil
}

// SetStatus changes the housekeeping status of a room
func (s *RoomService) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*RoomDTO, error) {
	room, err := s.rooms.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := room.SetStatus(property.RoomStatus(status)); err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	dto := ToRoomDTO(room)
	return &dto, nil
}

// Delete removes a room and refreshes the property's room count
func (s *RoomService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	room, err := s.rooms.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.rooms.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	if p, err := s.properties.FindByIDForTenant(ctx, tenantID, room.PropertyID); err == nil {
		s.syncRoomCount(ctx, p)
	}
	return nil
}

func (s *RoomService) syncRoomCount(ctx context.Context, p *property.Property) {
	n, err := s.rooms.CountByProperty(ctx, p.TenantID, p.ID)
	if err != nil {
		s.logger.Warn("Failed to count rooms", zap.String("property_id", p.ID.String()), zap.Error(err))
		return
	}
	p.SetRoomCount(int(n))
	if err := s.properties.Save(ctx, p); err != nil {
		s.logger.Warn("Failed to update room count", zap.String("property_id", p.ID.String()), zap.Error(err))
	}
}
