package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error)
	FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*Booking, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Booking, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// HasOverlap reports whether an active booking holds the room in [checkIn, checkOut), ignoring excludeID
	HasOverlap(ctx context.Context, tenantID, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error)
	CountActiveByProperty(ctx context.Context, tenantID, propertyID uuid.UUID) (int64, error)
	Save(ctx context.Context, booking *Booking) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
