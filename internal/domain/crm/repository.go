package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PipelineStage aggregates leads sharing a status
type PipelineStage struct {
	Status LeadStatus
	Count  int64
	Value  decimal.Decimal
}

// LeadRepository defines the interface for lead persistence
type LeadRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Lead, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Lead, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// Pipeline returns one row per status that has leads
	Pipeline(ctx context.Context, tenantID uuid.UUID) ([]PipelineStage, error)
	Save(ctx context.Context, lead *Lead) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
