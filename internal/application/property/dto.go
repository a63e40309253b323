package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/shopspring/decimal"
)

// CreatePropertyInput contains input for registering a venue
type CreatePropertyInput struct {
	TenantID        uuid.UUID
	CreatedBy       uuid.UUID
	Code            string
	Name            string
	Type            string
	Description     string
	Address         string
	City            string
	Country         string
	PostalCode      string
	Latitude        *float64
	Longitude       *float64
	Phone           string
	Email           string
	Website         string
	StarRating      int
	CheckInTime     string
	CheckOutTime    string
	Amenities       []string
	SeatingCapacity int
}

// UpdatePropertyInput contains input for updating a venue; nil fields are unchanged
type UpdatePropertyInput struct {
	Name            *string
	Description     *string
	Address         *string
	City            *string
	Country         *string
	PostalCode      *string
	Latitude        *float64
	Longitude       *float64
	Phone           *string
	Email           *string
	Website         *string
	StarRating      *int
	CheckInTime     *string
	CheckOutTime    *string
	Amenities       []string
	SeatingCapacity *int
}

// PropertyListFilter narrows property listings
type PropertyListFilter struct {
	Search   string
	Type     string
	Status   string
	City     string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// CoverUpload is a cover photo to store for a property
type CoverUpload struct {
	FileName    string
	ContentType string
	Size        int64
}

// PropertyDTO represents a venue
type PropertyDTO struct {
	ID              uuid.UUID `json:"id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	Description     string    `json:"description,omitempty"`
	Address         string    `json:"address,omitempty"`
	City            string    `json:"city,omitempty"`
	Country         string    `json:"country,omitempty"`
	PostalCode      string    `json:"postal_code,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	Website         string    `json:"website,omitempty"`
	StarRating      int       `json:"star_rating"`
	CheckInTime     string    `json:"check_in_time,omitempty"`
	CheckOutTime    string    `json:"check_out_time,omitempty"`
	Amenities       []string  `json:"amenities"`
	CoverImageKey   string    `json:"cover_image_key,omitempty"`
	CoverImageURL   string    `json:"cover_image_url,omitempty"`
	TotalRooms      int       `json:"total_rooms"`
	SeatingCapacity int       `json:"seating_capacity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

// ToPropertyDTO converts a domain property into its DTO
func ToPropertyDTO(p *property.Property) PropertyDTO {
	amenities := make([]string, len(p.Amenities))
	copy(amenities, p.Amenities)
	return PropertyDTO{
		ID:              p.ID,
		TenantID:        p.TenantID,
		Code:            p.Code,
		Name:            p.Name,
		Slug:            p.Slug,
		Type:            string(p.Type),
		Status:          string(p.Status),
		Description:     p.Description,
		Address:         p.Address,
		City:            p.City,
		Country:         p.Country,
		PostalCode:      p.PostalCode,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		Phone:           p.Phone,
		Email:           p.Email,
		Website:         p.Website,
		StarRating:      p.StarRating,
		CheckInTime:     p.CheckInTime,
		CheckOutTime:    p.CheckOutTime,
		Amenities:       amenities,
		CoverImageKey:   p.CoverImageKey,
		TotalRooms:      p.TotalRooms,
		SeatingCapacity: p.SeatingCapacity,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// CreateRoomInput contains input for adding a room
type CreateRoomInput struct {
	TenantID    uuid.UUID
	PropertyID  uuid.UUID
	Number      string
	Name        string
	Type        string
	Capacity    int
	BaseRate    decimal.Decimal
	Currency    string
	Floor       int
	Description string
}

// UpdateRoomInput contains input for updating a room; nil fields are unchanged
type UpdateRoomInput struct {
	Name        *string
	Type        *string
	Capacity    *int
	Floor       *int
	BaseRate    *decimal.Decimal
	Description *string
}

// RoomListFilter narrows room listings
type RoomListFilter struct {
	Type        string
	Status      string
	MinCapacity int
	Page        int
	PageSize    int
	OrderBy     string
	OrderDir    string
}

// RoomDTO represents a room
type RoomDTO struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	PropertyID  uuid.UUID       `json:"property_id"`
	Number      string          `json:"number"`
	Name        string          `json:"name,omitempty"`
	Type        string          `json:"type"`
	Capacity    int             `json:"capacity"`
	BaseRate    decimal.Decimal `json:"base_rate"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	Floor       int             `json:"floor"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToRoomDTO converts a domain room into its DTO
func ToRoomDTO(r *property.Room) RoomDTO {
	return RoomDTO{
		ID:          r.ID,
		TenantID:    r.TenantID,
		PropertyID:  r.PropertyID,
		Number:      r.Number,
		Name:        r.Name,
		Type:        string(r.Type),
		Capacity:    r.Capacity,
		BaseRate:    r.BaseRate,
		Currency:    r.Currency,
		Status:      string(r.Status),
		Floor:       r.Floor,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}
