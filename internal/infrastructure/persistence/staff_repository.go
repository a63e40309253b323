package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/domain/staff"
	"gorm.io/gorm"
)

var staffList = listQuery{
	searchColumns: []string{"employee_code", "first_name", "last_name", "email"},
	clauses: map[string]string{
		"department":      "department = ?",
		"status":          "status = ?",
		"employment_type": "employment_type = ?",
		"property_id":     "property_id = ?",
	},
	sortFields:  StaffSortFields,
	defaultSort: "last_name",
}

// GormStaffRepository implements StaffRepository using GORM
type GormStaffRepository struct {
	db *gorm.DB
}

// NewGormStaffRepository creates a new GormStaffRepository
func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

func (r *GormStaffRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*staff.StaffMember, error) {
	return firstForTenant[staff.StaffMember](ctx, r.db, tenantID, id)
}

func (r *GormStaffRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]staff.StaffMember, error) {
	return listForTenant[staff.StaffMember](ctx, r.db, staffList, tenantID, filter)
}

func (r *GormStaffRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return countForTenant[staff.StaffMember](ctx, r.db, staffList, tenantID, filter)
}

// ExistsByCode checks if an employee code is taken within a tenant
func (r *GormStaffRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&staff.StaffMember{}).
		Where("tenant_id = ? AND employee_code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormStaffRepository) Save(ctx context.Context, member *staff.StaffMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *GormStaffRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant[staff.StaffMember](ctx, r.db, tenantID, id)
}

var _ staff.StaffRepository = (*GormStaffRepository)(nil)
