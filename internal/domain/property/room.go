package property

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RoomType is the category of a room
type RoomType string

const (
	RoomTypeSingle    RoomType = "single"
	RoomTypeDouble    RoomType = "double"
	RoomTypeTwin      RoomType = "twin"
	RoomTypeSuite     RoomType = "suite"
	RoomTypeFamily    RoomType = "family"
	RoomTypeDormitory RoomType = "dormitory"
)

// IsValid reports whether the room type is known
func (t RoomType) IsValid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeTwin, RoomTypeSuite, RoomTypeFamily, RoomTypeDormitory:
		return true
	}
	return false
}

// RoomStatus is the housekeeping status of a room
type RoomStatus string

const (
	RoomStatusAvailable    RoomStatus = "available"
	RoomStatusOccupied     RoomStatus = "occupied"
	RoomStatusMaintenance  RoomStatus = "maintenance"
	RoomStatusOutOfService RoomStatus = "out_of_service"
)

// IsValid reports whether the room status is known
func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance, RoomStatusOutOfService:
		return true
	}
	return false
}

// Room is a rentable unit inside a lodging property
type Room struct {
	shared.TenantAggregateRoot
	PropertyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number      string          `gorm:"type:varchar(20);not null"`
	Name        string          `gorm:"type:varchar(200)"`
	Type        RoomType        `gorm:"type:varchar(20);not null"`
	Capacity    int             `gorm:"not null;default:1"`
	BaseRate    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Status      RoomStatus      `gorm:"type:varchar(20);not null;default:'available'"`
	Floor       int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Room) TableName() string {
	return "rooms"
}

// NewRoom creates an available room in a lodging property
func NewRoom(p *Property, number string, roomType RoomType, capacity int, baseRate decimal.Decimal, currency string) (*Room, error) {
	if !p.Type.HasRooms() {
		return nil, shared.NewDomainError("ROOMS_NOT_SUPPORTED", "Only hotels, resorts and guesthouses have rooms")
	}
	number = strings.TrimSpace(number)
	if number == "" || len(number) > 20 || !shared.IsValidCode(number) {
		return nil, shared.NewDomainError("INVALID_ROOM_NUMBER", "Room number must be 1-20 letters, digits, hyphens or underscores")
	}
	if !roomType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROOM_TYPE", "Unknown room type")
	}
	if err := validateCapacity(capacity); err != nil {
		return nil, err
	}
	if err := validateRate(baseRate); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}

	return &Room{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(p.TenantID),
		PropertyID:          p.ID,
		Number:              strings.ToUpper(number),
		Type:                roomType,
		Capacity:            capacity,
		BaseRate:            baseRate.Round(2),
		Currency:            strings.ToUpper(currency),
		Status:              RoomStatusAvailable,
	}, nil
}

// Update sets the mutable room attributes
func (r *Room) Update(name string, roomType RoomType, capacity, floor int, baseRate decimal.Decimal, description string) error {
	if !roomType.IsValid() {
		return shared.NewDomainError("INVALID_ROOM_TYPE", "Unknown room type")
	}
	if err := validateCapacity(capacity); err != nil {
		return err
	}
	if err := validateRate(baseRate); err != nil {
		return err
	}
	r.Name = shared.SanitizeString(name)
	r.Type = roomType
	r.Capacity = capacity
	r.Floor = floor
	r.BaseRate = baseRate.Round(2)
	r.Description = shared.SanitizeString(description)
	r.MarkChanged()
	return nil
}

// SetStatus changes the housekeeping status
func (r *Room) SetStatus(status RoomStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_ROOM_STATUS", "Unknown room status")
	}
	if r.Status == status {
		return nil
	}
	r.Status = status
	r.MarkChanged()
	return nil
}

// IsSellable reports whether the room can take new reservations
func (r *Room) IsSellable() bool {
	return r.Status == RoomStatusAvailable || r.Status == RoomStatusOccupied
}

// Fits reports whether the party fits in the room
func (r *Room) Fits(guests int) bool {
	return guests <= r.Capacity
}

func validateCapacity(capacity int) error {
	if capacity < 1 || capacity > 50 {
		return shared.NewDomainError("INVALID_CAPACITY", "Room capacity must be between 1 and 50")
	}
	return nil
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Base rate cannot be negative")
	}
	return nil
}
