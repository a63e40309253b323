package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var leadList = listQuery{
	searchColumns: []string{"name", "email", "company"},
	clauses: map[string]string{
		"status":      "status = ?",
		"source":      "source = ?",
		"property_id": "property_id = ?",
		"assigned_to": "assigned_to = ?",
	},
	sortFields:  LeadSortFields,
	defaultSort: "created_at",
}

// GormLeadRepository implements LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

func (r *GormLeadRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error) {
	return firstForTenant[crm.Lead](ctx, r.db, tenantID, id)
}

func (r *GormLeadRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Lead, error) {
	return listForTenant[crm.Lead](ctx, r.db, leadList, tenantID, filter)
}

func (r *GormLeadRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return countForTenant[crm.Lead](ctx, r.db, leadList, tenantID, filter)
}

// pipelineRow is the scan target for the pipeline aggregate
type pipelineRow struct {
	Status string
	Count  int64
	Value  decimal.Decimal
}

// Pipeline aggregates lead counts and estimated value per status
func (r *GormLeadRepository) Pipeline(ctx context.Context, tenantID uuid.UUID) ([]crm.PipelineStage, error) {
	var rows []pipelineRow
	if err := r.db.WithContext(ctx).Model(&crm.Lead{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(estimated_value), 0) AS value").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stages := make([]crm.PipelineStage, 0, len(rows))
	for _, row := range rows {
		stages = append(stages, crm.PipelineStage{
			Status: crm.LeadStatus(row.Status),
			Count:  row.Count,
			Value:  row.Value,
		})
	}
	return stages, nil
}

func (r *GormLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *GormLeadRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant[crm.Lead](ctx, r.db, tenantID, id)
}

var _ crm.LeadRepository = (*GormLeadRepository)(nil)
