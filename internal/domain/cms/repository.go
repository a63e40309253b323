package cms

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// PageRepository defines the interface for page persistence
type PageRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Page, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug, locale string) (*Page, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Page, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug, locale string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, page *Page) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MediaRepository defines the interface for media metadata persistence
type MediaRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*MediaAsset, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]MediaAsset, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, asset *MediaAsset) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
