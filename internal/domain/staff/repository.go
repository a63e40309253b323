package staff

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// StaffRepository defines the interface for staff persistence
type StaffRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StaffMember, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StaffMember, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, member *StaffMember) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
