package property

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Property, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Property, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Property, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, property *Property) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// RoomRepository defines the interface for room persistence
type RoomRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Room, error)
	FindByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, filter shared.Filter) ([]Room, error)
	CountByProperty(ctx context.Context, tenantID, propertyID uuid.UUID) (int64, error)
	ExistsByNumber(ctx context.Context, tenantID, propertyID uuid.UUID, number string) (bool, error)
	// FindAvailable returns sellable rooms with no active booking overlapping [checkIn, checkOut)
	FindAvailable(ctx context.Context, tenantID, propertyID uuid.UUID, checkIn, checkOut time.Time, guests int) ([]Room, error)
	Save(ctx context.Context, room *Room) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
