package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/analytics"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/property"
	"gorm.io/gorm"
)

// GormAnalyticsRepository implements analytics.Reader using GORM
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// CountProperties counts non-archived properties
func (r *GormAnalyticsRepository) CountProperties(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&property.Property{}).
		Where("tenant_id = ? AND status <> ?", tenantID, property.PropertyStatusArchived).
		Count(&count).Error
	return count, err
}

// CountRooms counts rooms that can be sold
func (r *GormAnalyticsRepository) CountRooms(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&property.Room{}).
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]property.RoomStatus{property.RoomStatusAvailable, property.RoomStatusOccupied}).
		Count(&count).Error
	return count, err
}

// BookingsByStatus counts bookings overlapping the period, grouped by status
func (r *GormAnalyticsRepository) BookingsByStatus(ctx context.Context, tenantID uuid.UUID, p analytics.Period) ([]analytics.StatusCount, error) {
	var rows []analytics.StatusCount
	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Where("check_in < ? AND check_out > ?", p.To, p.From).
		Group("status").
		Order("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Stays returns room assignments of bookings that hold or held a room in the period
func (r *GormAnalyticsRepository) Stays(ctx context.Context, tenantID uuid.UUID, p analytics.Period) ([]analytics.Stay, error) {
	statuses := append([]booking.BookingStatus{}, booking.ActiveStatuses...)
	statuses = append(statuses, booking.BookingStatusCheckedOut)

	var stays []analytics.Stay
	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Select("room_id, check_in, check_out").
		Where("tenant_id = ? AND room_id IS NOT NULL", tenantID).
		Where("status IN ?", statuses).
		Where("check_in < ? AND check_out > ?", p.To, p.From).
		Scan(&stays).Error; err != nil {
		return nil, err
	}
	return stays, nil
}

// UpcomingArrivals lists pending or confirmed bookings checking in from the given day
func (r *GormAnalyticsRepository) UpcomingArrivals(ctx context.Context, tenantID uuid.UUID, from time.Time, limit int) ([]analytics.UpcomingArrival, error) {
	var bookings []booking.Booking
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND check_in >= ?", tenantID, from).
		Where("status IN ?", []booking.BookingStatus{booking.BookingStatusPending, booking.BookingStatusConfirmed}).
		Order("check_in ASC").
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	arrivals := make([]analytics.UpcomingArrival, 0, len(bookings))
	for _, b := range bookings {
		arrivals = append(arrivals, analytics.UpcomingArrival{
			BookingID:  b.ID,
			Reference:  b.Reference,
			GuestName:  b.GuestName,
			PropertyID: b.PropertyID,
			CheckIn:    b.CheckIn,
			Nights:     b.Nights(),
			Total:      b.TotalAmount,
		})
	}
	return arrivals, nil
}

var _ analytics.Reader = (*GormAnalyticsRepository)(nil)
