package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// exclusionViolation is the SQLSTATE raised by excl_bookings_room_overlap
const exclusionViolation = "23P01"

var bookingList = listQuery{
	searchColumns: []string{"reference", "guest_name", "guest_email"},
	clauses: map[string]string{
		"status":      "status = ?",
		"source":      "source = ?",
		"property_id": "property_id = ?",
		"room_id":     "room_id = ?",
		"from":        "check_out > ?",
		"to":          "check_in < ?",
	},
	sortFields:  BookingSortFields,
	defaultSort: "check_in",
}

// GormBookingRepository implements BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByIDForTenant finds a booking by ID within a tenant
func (r *GormBookingRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*booking.Booking, error) {
	return firstForTenant[booking.Booking](ctx, r.db, tenantID, id)
}

// FindByReference finds a booking by its guest-facing reference
func (r *GormBookingRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference = ?", tenantID, strings.ToUpper(strings.TrimSpace(reference))).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindAllForTenant finds all bookings for a tenant
func (r *GormBookingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]booking.Booking, error) {
	return listForTenant[booking.Booking](ctx, r.db, bookingList, tenantID, filter)
}

// CountForTenant counts bookings for a tenant
func (r *GormBookingRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return countForTenant[booking.Booking](ctx, r.db, bookingList, tenantID, filter)
}

// HasOverlap reports whether an active booking holds the room in [checkIn, checkOut).
// Stays are half-open so a check-out and a check-in on the same day do not collide.
func (r *GormBookingRepository) HasOverlap(ctx context.Context, tenantID, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Where("tenant_id = ? AND room_id = ?", tenantID, roomID).
		Where("status IN ?", booking.ActiveStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActiveByProperty counts bookings that still hold rooms at a property
func (r *GormBookingRepository) CountActiveByProperty(ctx context.Context, tenantID, propertyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Where("tenant_id = ? AND property_id = ?", tenantID, propertyID).
		Where("status IN ?", booking.ActiveStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a booking
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	err := saveWithLock(r.db.WithContext(ctx), b)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
		return booking.ErrRoomUnavailable
	}
	return err
}

// DeleteForTenant deletes a booking within a tenant
func (r *GormBookingRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant[booking.Booking](ctx, r.db, tenantID, id)
}

var _ booking.BookingRepository = (*GormBookingRepository)(nil)
