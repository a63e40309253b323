package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var propertyList = listQuery{
	searchColumns: []string{"name", "code", "city"},
	clauses: map[string]string{
		"type":    "type = ?",
		"status":  "status = ?",
		"city":    "city = ?",
		"country": "country = ?",
	},
	sortFields:  PropertySortFields,
	defaultSort: "created_at",
}

var roomList = listQuery{
	searchColumns: []string{"number", "name"},
	clauses: map[string]string{
		"type":         "type = ?",
		"status":       "status = ?",
		"floor":        "floor = ?",
		"min_capacity": "capacity >= ?",
	},
	sortFields:  RoomSortFields,
	defaultSort: "number",
}

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByIDForTenant finds a property by ID within a tenant
func (r *GormPropertyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Property, error) {
	var p property.Property
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindBySlug finds a property by its slug within a tenant
func (r *GormPropertyRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*property.Property, error) {
	var p property.Property
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug = ?", tenantID, strings.ToLower(slug)).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAllForTenant finds all properties for a tenant
func (r *GormPropertyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	var properties []property.Property
	query := propertyList.page(r.db.WithContext(ctx).Model(&property.Property{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// CountForTenant counts properties for a tenant
func (r *GormPropertyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := propertyList.where(r.db.WithContext(ctx).Model(&property.Property{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a property code is taken within a tenant
func (r *GormPropertyRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&property.Property{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DeleteForTenant deletes a property within a tenant
func (r *GormPropertyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&property.Property{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormRoomRepository implements RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByIDForTenant finds a room by ID within a tenant
func (r *GormRoomRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Room, error) {
	var room property.Room
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// FindByProperty lists the rooms of a property
func (r *GormRoomRepository) FindByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, filter shared.Filter) ([]property.Room, error) {
	var rooms []property.Room
	query := roomList.page(r.db.WithContext(ctx).Model(&property.Room{}).
		Where("tenant_id = ? AND property_id = ?", tenantID, propertyID), filter)
	if err := query.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// CountByProperty counts the rooms of a property
func (r *GormRoomRepository) CountByProperty(ctx context.Context, tenantID, propertyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&property.Room{}).
		Where("tenant_id = ? AND property_id = ?", tenantID, propertyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if a room number is taken within a property
func (r *GormRoomRepository) ExistsByNumber(ctx context.Context, tenantID, propertyID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&property.Room{}).
		Where("tenant_id = ? AND property_id = ? AND number = ?", tenantID, propertyID, strings.ToUpper(strings.TrimSpace(number))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAvailable returns sellable rooms that fit the party and have no active
// booking overlapping [checkIn, checkOut).
func (r *GormRoomRepository) FindAvailable(ctx context.Context, tenantID, propertyID uuid.UUID, checkIn, checkOut time.Time, guests int) ([]property.Room, error) {
	occupied := r.db.Model(&booking.Booking{}).
		Select("1").
		Where("bookings.room_id = rooms.id").
		Where("bookings.status IN ?", booking.ActiveStatuses).
		Where("bookings.check_in < ? AND bookings.check_out > ?", checkOut, checkIn)

	var rooms []property.Room
	if err := r.db.WithContext(ctx).
		Where("rooms.tenant_id = ? AND rooms.property_id = ?", tenantID, propertyID).
		Where("rooms.status IN ?", []property.RoomStatus{property.RoomStatusAvailable, property.RoomStatusOccupied}).
		Where("rooms.capacity >= ?", guests).
		Where("NOT EXISTS (?)", occupied).
		Order("rooms.base_rate ASC, rooms.number ASC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// Save creates or updates a room
func (r *GormRoomRepository) Save(ctx context.Context, room *property.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// DeleteForTenant deletes a room within a tenant
func (r *GormRoomRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&property.Room{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ property.PropertyRepository = (*GormPropertyRepository)(nil)
	_ property.RoomRepository     = (*GormRoomRepository)(nil)
)
