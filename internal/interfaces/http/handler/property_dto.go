package handler

import (
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/property"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest registers a hotel, resort, guesthouse, restaurant or cafe
type CreatePropertyRequest struct {
	Code            string   `json:"code" binding:"required,min=2,max=50"`
	Name            string   `json:"name" binding:"required,min=1,max=200"`
	Type            string   `json:"type" binding:"required,oneof=hotel resort guesthouse restaurant cafe"`
	Description     string   `json:"description" binding:"omitempty,max=5000"`
	Address         string   `json:"address" binding:"omitempty,max=500"`
	City            string   `json:"city" binding:"omitempty,max=100"`
	Country         string   `json:"country" binding:"omitempty,max=100"`
	PostalCode      string   `json:"postal_code" binding:"omitempty,max=20"`
	Latitude        *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude" binding:"omitempty,longitude"`
	Phone           string   `json:"phone" binding:"omitempty,phone"`
	Email           string   `json:"email" binding:"omitempty,email,max=200"`
	Website         string   `json:"website" binding:"omitempty,url,max=500"`
	StarRating      int      `json:"star_rating" binding:"omitempty,min=1,max=5"`
	CheckInTime     string   `json:"check_in_time" binding:"omitempty,datetime=15:04"`
	CheckOutTime    string   `json:"check_out_time" binding:"omitempty,datetime=15:04"`
	Amenities       []string `json:"amenities" binding:"omitempty,max=50,dive,max=100"`
	SeatingCapacity int      `json:"seating_capacity" binding:"omitempty,min=1,max=10000"`
}

func (r CreatePropertyRequest) toInput(tenantID, actorID uuid.UUID) property.CreatePropertyInput {
	return property.CreatePropertyInput{
		TenantID:        tenantID,
		CreatedBy:       actorID,
		Code:            r.Code,
		Name:            r.Name,
		Type:            r.Type,
		Description:     r.Description,
		Address:         r.Address,
		City:            r.City,
		Country:         r.Country,
		PostalCode:      r.PostalCode,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		Phone:           r.Phone,
		Email:           r.Email,
		Website:         r.Website,
		StarRating:      r.StarRating,
		CheckInTime:     r.CheckInTime,
		CheckOutTime:    r.CheckOutTime,
		Amenities:       r.Amenities,
		SeatingCapacity: r.SeatingCapacity,
	}
}

// CreateHotelRequest is CreatePropertyRequest with the type fixed to hotel
type CreateHotelRequest struct {
	Code         string   `json:"code" binding:"required,min=2,max=50"`
	Name         string   `json:"name" binding:"required,min=1,max=200"`
	Description  string   `json:"description" binding:"omitempty,max=5000"`
	Address      string   `json:"address" binding:"omitempty,max=500"`
	City         string   `json:"city" binding:"omitempty,max=100"`
	Country      string   `json:"country" binding:"omitempty,max=100"`
	Phone        string   `json:"phone" binding:"omitempty,phone"`
	Email        string   `json:"email" binding:"omitempty,email,max=200"`
	StarRating   int      `json:"star_rating" binding:"omitempty,min=1,max=5"`
	CheckInTime  string   `json:"check_in_time" binding:"omitempty,datetime=15:04"`
	CheckOutTime string   `json:"check_out_time" binding:"omitempty,datetime=15:04"`
	Amenities    []string `json:"amenities" binding:"omitempty,max=50,dive,max=100"`
}

// UpdatePropertyRequest changes the non-null fields
type UpdatePropertyRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Description     *string  `json:"description" binding:"omitempty,max=5000"`
	Address         *string  `json:"address" binding:"omitempty,max=500"`
	City            *string  `json:"city" binding:"omitempty,max=100"`
	Country         *string  `json:"country" binding:"omitempty,max=100"`
	PostalCode      *string  `json:"postal_code" binding:"omitempty,max=20"`
	Latitude        *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude" binding:"omitempty,longitude"`
	Phone           *string  `json:"phone" binding:"omitempty,phone"`
	Email           *string  `json:"email" binding:"omitempty,email,max=200"`
	Website         *string  `json:"website" binding:"omitempty,url,max=500"`
	StarRating      *int     `json:"star_rating" binding:"omitempty,min=1,max=5"`
	CheckInTime     *string  `json:"check_in_time" binding:"omitempty,datetime=15:04"`
	CheckOutTime    *string  `json:"check_out_time" binding:"omitempty,datetime=15:04"`
	Amenities       []string `json:"amenities" binding:"omitempty,max=50,dive,max=100"`
	SeatingCapacity *int     `json:"seating_capacity" binding:"omitempty,min=1,max=10000"`
}

func (r UpdatePropertyRequest) toInput() property.UpdatePropertyInput {
	return property.UpdatePropertyInput{
		Name:            r.Name,
		Description:     r.Description,
		Address:         r.Address,
		City:            r.City,
		Country:         r.Country,
		PostalCode:      r.PostalCode,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		Phone:           r.Phone,
		Email:           r.Email,
		Website:         r.Website,
		StarRating:      r.StarRating,
		CheckInTime:     r.CheckInTime,
		CheckOutTime:    r.CheckOutTime,
		Amenities:       r.Amenities,
		SeatingCapacity: r.SeatingCapacity,
	}
}

// PropertyListQuery represents query parameters for listing properties
type PropertyListQuery struct {
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	Type     string `form:"type" binding:"omitempty,oneof=hotel resort guesthouse restaurant cafe"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active inactive archived"`
	City     string `form:"city" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=code name city star_rating created_at updated_at"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

func (q PropertyListQuery) toFilter() property.PropertyListFilter {
	return property.PropertyListFilter{
		Search:   q.Keyword,
		Type:     q.Type,
		Status:   q.Status,
		City:     q.City,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.SortBy,
		OrderDir: q.SortDir,
	}
}

// CreateRoomRequest adds a room to a lodging property
type CreateRoomRequest struct {
	Number      string          `json:"number" binding:"required,min=1,max=20"`
	Name        string          `json:"name" binding:"omitempty,max=100"`
	Type        string          `json:"type" binding:"required,oneof=single double twin suite family dormitory"`
	Capacity    int             `json:"capacity" binding:"required,min=1,max=50"`
	BaseRate    decimal.Decimal `json:"base_rate"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Floor       int             `json:"floor" binding:"omitempty,min=-5,max=200"`
	Description string          `json:"description" binding:"omitempty,max=2000"`
}

// UpdateRoomRequest changes the non-null fields of a room
type UpdateRoomRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Type        *string          `json:"type" binding:"omitempty,oneof=single double twin suite family dormitory"`
	Capacity    *int             `json:"capacity" binding:"omitempty,min=1,max=50"`
	Floor       *int             `json:"floor" binding:"omitempty,min=-5,max=200"`
	BaseRate    *decimal.Decimal `json:"base_rate"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
}

// RoomStatusRequest moves a room between housekeeping states
type RoomStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available occupied maintenance out_of_service"`
}

// RoomListQuery represents query parameters for listing rooms
type RoomListQuery struct {
	Type        string `form:"type" binding:"omitempty,oneof=single double twin suite family dormitory"`
	Status      string `form:"status" binding:"omitempty,oneof=available occupied maintenance out_of_service"`
	MinCapacity int    `form:"min_capacity" binding:"omitempty,min=1"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=number type capacity base_rate floor"`
	SortDir     string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}
